package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/pkg/model"
)

// prompter reads answers for flags the user did not pass.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *prompter) ask(label string, value *string) error {
	if *value != "" {
		return nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	*value = strings.TrimRight(line, "\r\n")
	return nil
}

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the diary",
		Long:  "Authenticate with the diary backend and store the session for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			if err := p.ask("Username", &username); err != nil {
				return err
			}
			if err := p.ask("Password", &password); err != nil {
				return err
			}

			resp, err := app.Client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			name := strings.TrimSpace(username)
			if resp.User != nil && resp.User.Username != "" {
				name = resp.User.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a diary account",
		Long:  "Create an account. Passwords need at least 8 characters, an upper-case letter and a digit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			if err := p.ask("Username", &req.Username); err != nil {
				return err
			}
			if err := p.ask("Password", &req.Password); err != nil {
				return err
			}
			if err := p.ask("City", &req.City); err != nil {
				return err
			}

			if _, err := app.Client.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s created. Run 'diary login' to start.\n", strings.TrimSpace(req.Username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username, at least 3 characters")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&req.City, "city", "", "City used for the weather")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
