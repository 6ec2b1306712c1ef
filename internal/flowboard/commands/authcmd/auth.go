package authcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
	"github.com/flowboardhq/flowboard/internal/model"
	"github.com/flowboardhq/flowboard/internal/session"
)

type authResult struct {
	Message string     `json:"message,omitempty"`
	User    model.User `json:"user"`
}

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the login session.",
		Long:  "Register, log in, log out, and refresh the saved session token.",
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in.",
		Long:  "Register a new account; the returned token pair is saved as the active session.",
		Example: strings.TrimSpace(`flowboard auth register -e dana@example.com -p secret123 --name "Dana Developer"
flowboard auth register --email dana@example.com --password secret123`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			resp, err := client.Register(context.Background(), api.RegisterRequest{
				Email:    strings.TrimSpace(email),
				Password: password,
				FullName: strings.TrimSpace(name),
			})
			if err != nil {
				return wrapErr(err)
			}
			if err := runtime.Session().Save(session.Session{
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			}); err != nil {
				return err
			}
			return print(runtime.Output(), stdout, authResult{Message: resp.Message, User: resp.User})
		},
	}
	registerCmd.Flags().StringP("email", "e", "", "Account email")
	registerCmd.Flags().StringP("password", "p", "", "Account password (min 8 characters)")
	registerCmd.Flags().String("name", "", "Full name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session.",
		Long:  "Exchange credentials for a token pair and save it for later commands.",
		Example: strings.TrimSpace(`flowboard auth login -e demo@flowboard.dev -p demo1234
flowboard auth login --email dana@example.com --password secret123`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			resp, err := client.Login(context.Background(), api.LoginRequest{
				Email:    strings.TrimSpace(email),
				Password: password,
			})
			if err != nil {
				return wrapErr(err)
			}
			if err := runtime.Session().Save(session.Session{
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			}); err != nil {
				return err
			}
			return print(runtime.Output(), stdout, authResult{
				Message: "Logged in as " + resp.User.Email,
				User:    resp.User,
			})
		},
	}
	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the saved session.",
		Long:  "Invalidates the session on the server and removes the local session file either way.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			serverErr := client.Logout(context.Background())
			if err := runtime.Session().Clear(); err != nil {
				return err
			}
			if serverErr != nil {
				return wrapErr(serverErr)
			}
			return print(runtime.Output(), stdout, map[string]string{"message": "Logged out"})
		},
	}

	whoamiCmd := &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"me"},
		Short:   "Show the logged-in user.",
		Long:    "Fetch the account behind the saved session token.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			user, err := client.Me(context.Background())
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, user)
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token.",
		Long:  "Uses the saved refresh token to mint a new access token and updates the session file.",
		RunE: func(_ *cobra.Command, _ []string) error {
			store := runtime.Session()
			sess, err := store.Load()
			if err != nil {
				return err
			}
			if sess.RefreshToken == "" {
				return wrapErr(common.Usagef("no saved session; run `flowboard auth login` first"))
			}

			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}
			accessToken, err := client.Refresh(context.Background(), sess.RefreshToken)
			if err != nil {
				return wrapErr(err)
			}
			sess.AccessToken = accessToken
			if err := store.Save(sess); err != nil {
				return err
			}
			return print(runtime.Output(), stdout, map[string]string{"message": "Token refreshed"})
		},
	}

	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, refreshCmd)
	return authCmd
}
