// cmd/create/user.go

package create

import (
	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/config"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/interaction"
	"github.com/groundworklabs/groundwork/pkg/users"
)

var (
	userName       string
	userDryRun     bool
	userPromptPass bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Create the deploy user with sudo access",
	Long: `Creates a login user with a home directory, a generated password, and a
validated sudoers drop-in. Reruns are safe: an existing user only has its
sudoers entry reconciled.`,
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		name := userName
		if name == "" {
			name = cfg.DeployUser
		}

		var password string
		if userPromptPass && !userDryRun {
			password, err = interaction.PromptPassword(rc, "Password for "+name)
			if err != nil {
				return err
			}
		}

		return users.Create(rc, users.CreateOptions{
			Username: name,
			Password: password,
			DryRun:   userDryRun,
		})
	}),
}

func init() {
	userCmd.Flags().StringVar(&userName, "username", "", "login name for the deploy user (default from configuration)")
	userCmd.Flags().BoolVar(&userPromptPass, "prompt-password", false, "prompt for the password instead of generating one")
	userCmd.Flags().BoolVar(&userDryRun, "dry-run", false, "log the actions without executing them")
}
