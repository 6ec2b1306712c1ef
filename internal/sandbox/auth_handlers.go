package sandbox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerAuthOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		DefaultStatus: http.StatusCreated,
		Summary:       "Register a new account",
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, s.registerUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in with email and password",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, s.login)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshToken",
		Method:      http.MethodPost,
		Path:        "/api/auth/refresh",
		Summary:     "Exchange a refresh token for a new access token",
		Errors:      []int{http.StatusUnauthorized},
	}, s.refreshToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Log out",
	}, s.logout)

	huma.Register(s.api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Get the authenticated user",
		Errors:      []int{http.StatusNotFound, http.StatusUnauthorized},
	}, s.me)
}

type registerInput struct {
	Body struct {
		Email    string `json:"email,omitempty"`
		Password string `json:"password,omitempty"`
		FullName string `json:"full_name,omitempty"`
	}
}

type authOutput struct {
	Body struct {
		Message      string     `json:"message,omitempty"`
		User         model.User `json:"user"`
		AccessToken  string     `json:"access_token"`
		RefreshToken string     `json:"refresh_token"`
	}
}

func (s *Server) registerUser(_ context.Context, input *registerInput) (*authOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Body.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errValidation()
	}
	if len(input.Body.Password) < 8 {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.userByEmail(email) != nil {
		return nil, errConflict("Email already registered")
	}

	rec := &userRec{
		user: model.User{
			ID:        s.data.newID(),
			Email:     email,
			FullName:  strings.TrimSpace(input.Body.FullName),
			CreatedAt: time.Now().UTC(),
		},
		password: input.Body.Password,
	}
	s.data.users[rec.user.ID] = rec

	access, refresh, err := s.tokens.pair(rec.user.ID)
	if err != nil {
		return nil, err
	}

	out := &authOutput{}
	out.Body.Message = "User registered successfully"
	out.Body.User = rec.user
	out.Body.AccessToken = access
	out.Body.RefreshToken = refresh
	return out, nil
}

type loginInput struct {
	Body struct {
		Email    string `json:"email,omitempty"`
		Password string `json:"password,omitempty"`
	}
}

func (s *Server) login(_ context.Context, input *loginInput) (*authOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec := s.data.userByEmail(strings.TrimSpace(input.Body.Email))
	if rec == nil || rec.password != input.Body.Password {
		return nil, errUnauthorized("Invalid email or password")
	}

	access, refresh, err := s.tokens.pair(rec.user.ID)
	if err != nil {
		return nil, err
	}

	out := &authOutput{}
	out.Body.User = rec.user
	out.Body.AccessToken = access
	out.Body.RefreshToken = refresh
	return out, nil
}

type refreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"`
	}
}

func (s *Server) refreshToken(ctx context.Context, _ *struct{}) (*refreshOutput, error) {
	userID := userIDFrom(ctx)
	if userID == "" {
		return nil, errUnauthorized("Invalid or expired token")
	}
	access, err := s.tokens.mint(userID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	out := &refreshOutput{}
	out.Body.AccessToken = access
	return out, nil
}

func (s *Server) logout(_ context.Context, _ *struct{}) (*messageOutput, error) {
	return messageResponse("Logged out successfully"), nil
}

type userOutput struct {
	Body struct {
		User model.User `json:"user"`
	}
}

func (s *Server) me(ctx context.Context, _ *struct{}) (*userOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	user := s.data.renderUser(userIDFrom(ctx))
	if user == nil {
		return nil, errNotFound("User not found")
	}
	out := &userOutput{}
	out.Body.User = *user
	return out, nil
}
