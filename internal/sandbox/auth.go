package sandbox

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type contextKey struct{ name string }

var userIDKey = &contextKey{"user-id"}

// tokenSigner mints and verifies the sandbox's HS256 token pairs. The
// secret is generated per instance, so tokens do not survive a restart.
type tokenSigner struct {
	secret []byte
}

func newTokenSigner() (*tokenSigner, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	return &tokenSigner{secret: secret}, nil
}

func (t *tokenSigner) mint(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": tokenType,
		"jti":  uuid.NewString(),
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *tokenSigner) pair(userID string) (access, refresh string, err error) {
	if access, err = t.mint(userID, tokenTypeAccess, accessTokenTTL); err != nil {
		return "", "", err
	}
	if refresh, err = t.mint(userID, tokenTypeRefresh, refreshTokenTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// verify returns the subject of a valid token of the wanted type.
func (t *tokenSigner) verify(raw, wantType string) (string, error) {
	token, err := jwt.Parse(raw,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	if typ, _ := claims["type"].(string); typ != wantType {
		return "", fmt.Errorf("token type %q, want %q", typ, wantType)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// publicPath reports whether a request may pass without a bearer token.
func publicPath(path string) bool {
	switch path {
	case "/api/auth/register", "/api/auth/login", "/api/health":
		return true
	}
	return strings.HasPrefix(path, "/openapi")
}

// authMiddleware resolves the bearer token and stores the caller's user
// id on the request context. The refresh endpoint takes a refresh
// token; every other protected endpoint takes an access token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || publicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Authorization required")
			return
		}
		wantType := tokenTypeAccess
		if r.URL.Path == "/api/auth/refresh" {
			wantType = tokenTypeRefresh
		}
		userID, err := s.tokens.verify(raw, wantType)
		if err != nil {
			writeAuthError(w, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// userIDFrom returns the authenticated user id recorded by
// authMiddleware, or "" on the public endpoints.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
