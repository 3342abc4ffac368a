package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/cli/prompts"
	"github.com/asteroid-belt/learnpath/internal/learning"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
	loginPassword    string
)

// passwordPrompt is replaced in tests.
var passwordPrompt = prompts.RunPasswordPrompt

var registerCmd = &cobra.Command{
	Use:   "register <learner-id>",
	Short: "Register a new learner",
	Long: `Register a new learner.

The id must be at least 3 letters or digits. The password needs 8 or more
characters with an uppercase letter, a lowercase letter, a digit and one of
!@#$%^&*. Without --password you are prompted for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login <learner-id>",
	Short: "Check a learner's password",
	Long: `Check a learner's password.

Records written by older versions are upgraded to the current password
digest on a successful login.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted when omitted)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	password := registerPassword
	if password == "" {
		var err error
		password, err = passwordPrompt("Choose a password", true)
		if err != nil {
			return trackCLIError("register", fmt.Errorf("read password: %w", err))
		}
	}

	l, err := service.Register(cmd.Context(), learning.Registration{
		ID:       args[0],
		Name:     registerName,
		Email:    registerEmail,
		Password: password,
	})
	if err != nil {
		return trackCLIError("register", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, okStyle.Render("✓ Registered "+l.ID))
	_, _ = fmt.Fprintf(out, "\nUse 'learnpath interests %s set' to choose your interests.\n", l.ID)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		var err error
		password, err = passwordPrompt("Password", false)
		if err != nil {
			return trackCLIError("login", fmt.Errorf("read password: %w", err))
		}
	}

	l, err := service.Authenticate(cmd.Context(), args[0], password)
	if err != nil {
		return trackCLIError("login", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ Welcome back, %s!", l.Name)))
	return nil
}
