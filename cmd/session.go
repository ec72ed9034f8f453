/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/chesshub/apiserver/internal/client"
	"github.com/chesshub/apiserver/types"
	"github.com/spf13/cobra"
)

var (
	sessionServerURL string
	sessionEmail     string
	sessionPassword  string
	sessionName      string
)

// sessionCmd groups the client-side auth commands. They share one persisted
// token, so a login here is visible to every later invocation until logout.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interact with the auth API as a client",
}

var sessionRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := sess.Register(cmd.Context(), sessionEmail, sessionPassword, sessionName); err != nil {
			return fmt.Errorf("%s", sess.LastError())
		}
		printUser(cmd, *sess.User())
		return nil
	},
}

var sessionLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := sess.Login(cmd.Context(), sessionEmail, sessionPassword); err != nil {
			return fmt.Errorf("%s", sess.LastError())
		}
		printUser(cmd, *sess.User())
		return nil
	},
}

var sessionMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the currently logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := sess.Init(cmd.Context()); err != nil {
			return err
		}
		if !sess.Authenticated() {
			return fmt.Errorf("not logged in")
		}
		printUser(cmd, *sess.User())
		return nil
	},
}

var sessionProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the display name of the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := sess.Init(cmd.Context()); err != nil {
			return err
		}
		if !sess.Authenticated() {
			return fmt.Errorf("not logged in")
		}
		if err := sess.UpdateProfile(cmd.Context(), sessionName); err != nil {
			return fmt.Errorf("%s", sess.LastError())
		}
		printUser(cmd, *sess.User())
		return nil
	},
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		return sess.Logout()
	},
}

func newSession(cmd *cobra.Command) (*client.Session, error) {
	baseURL := sessionServerURL
	if baseURL == "" {
		baseURL = os.Getenv("CHESSHUB_SERVER")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	tokenPath, err := client.DefaultTokenPath()
	if err != nil {
		return nil, err
	}
	return client.NewSession(client.New(baseURL), client.NewFileTokenStore(tokenPath)), nil
}

func printUser(cmd *cobra.Command, user types.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionRegisterCmd, sessionLoginCmd, sessionMeCmd, sessionProfileCmd, sessionLogoutCmd)

	sessionCmd.PersistentFlags().StringVar(&sessionServerURL, "server", "", "base URL of the API server (default $CHESSHUB_SERVER or http://localhost:8080)")

	sessionRegisterCmd.Flags().StringVar(&sessionEmail, "email", "", "account email")
	sessionRegisterCmd.Flags().StringVar(&sessionPassword, "password", "", "account password")
	sessionRegisterCmd.Flags().StringVar(&sessionName, "name", "", "display name")
	_ = sessionRegisterCmd.MarkFlagRequired("email")
	_ = sessionRegisterCmd.MarkFlagRequired("password")
	_ = sessionRegisterCmd.MarkFlagRequired("name")

	sessionLoginCmd.Flags().StringVar(&sessionEmail, "email", "", "account email")
	sessionLoginCmd.Flags().StringVar(&sessionPassword, "password", "", "account password")
	_ = sessionLoginCmd.MarkFlagRequired("email")
	_ = sessionLoginCmd.MarkFlagRequired("password")

	sessionProfileCmd.Flags().StringVar(&sessionName, "name", "", "new display name")
	_ = sessionProfileCmd.MarkFlagRequired("name")
}
