package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the backend and store the session cookie locally.

The password is read from the first line of standard input, so it can be
piped in scripts: echo "$PASSWORD" | smartmcq login -u instructor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			username = b.cfg.API.Username
		}
		scanner := bufio.NewScanner(os.Stdin)
		if username == "" {
			fmt.Print("Username: ")
			if !scanner.Scan() {
				return errors.New("no username given")
			}
			username = strings.TrimSpace(scanner.Text())
		}
		fmt.Print("Password: ")
		if !scanner.Scan() {
			return errors.New("no password given")
		}
		password := scanner.Text()
		fmt.Println()

		sess, err := b.auth.Login(cmd.Context(), username, password)
		if err != nil {
			return errors.New(api.Message(err, api.KindAuth))
		}
		fmt.Printf("Signed in as %s", sess.Username)
		if sess.ExpiresAt != nil {
			fmt.Printf(" until %s", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println(".")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := auth.NewManager(nil, st.SessionRepo()).Logout(cmd.Context()); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := auth.NewManager(nil, st.SessionRepo()).Current(cmd.Context())
		switch {
		case errors.Is(err, auth.ErrNoSession):
			fmt.Println("Not signed in.")
			return nil
		case errors.Is(err, auth.ErrExpired):
			fmt.Println("Session expired. Run `smartmcq login` to sign in again.")
			return nil
		case err != nil:
			return fmt.Errorf("read session: %w", err)
		}

		fmt.Printf("User:      %s\n", sess.Username)
		if sess.Role != "" {
			fmt.Printf("Role:      %s\n", sess.Role)
		}
		if sess.ExpiresAt != nil {
			fmt.Printf("Expires:   %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username (defaults to api.username from config)")
}
