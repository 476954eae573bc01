package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/session"
)

var (
	authEmail    string
	authPassword string
	authFullName string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Example: `  receipt-service login --email user@example.com
  receipt-service login --email user@example.com --password secret`,
	RunE: runLogin,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runRegister,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active session identity",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		cmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
		cmd.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&authFullName, "name", "", "Full name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	token, err := client.Login(ctx, api.Credentials{Email: authEmail, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := session.Session{Token: token.AccessToken, Email: authEmail}
	if user, err := client.CurrentUser(ctx); err == nil {
		sess.FullName = user.FullName
		sess.UserID = user.ID
	}
	if err := sessions.Save(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	fmt.Printf("Logged in as %s\n", authEmail)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := client.Register(ctx, api.Registration{
		Email:    authEmail,
		Password: password,
		FullName: authFullName,
	}); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Printf("Account created for %s\n", authEmail)

	token, err := client.Login(ctx, api.Credentials{Email: authEmail, Password: password})
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	if err := sessions.Save(session.Session{Token: token.AccessToken, Email: authEmail, FullName: authFullName}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	fmt.Printf("Logged in as %s\n", authEmail)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s := sessions.Current()
	if s == nil {
		fmt.Println("Not logged in")
		return nil
	}

	// Prefer the live identity; fall back to what the session file recorded.
	if user, err := client.CurrentUser(cmd.Context()); err == nil {
		fmt.Printf("%s (%s)\n", user.Email, user.FullName)
		return nil
	}
	fmt.Printf("%s (session saved %s)\n", s.Email, s.SavedAt.Format("2006-01-02 15:04"))
	return nil
}

// resolvePassword returns the --password flag, the environment override, or
// a value read from stdin.
func resolvePassword() (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	if env := os.Getenv("RECEIPT_SERVICE_PASSWORD"); env != "" {
		return env, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
