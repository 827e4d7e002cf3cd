// cmd/root.go

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/cmd/create"
	"github.com/groundworklabs/groundwork/cmd/inspect"
	"github.com/groundworklabs/groundwork/cmd/provision"
	"github.com/groundworklabs/groundwork/cmd/secure"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/logger"
)

// RootCmd is the base command for groundwork.
var RootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Groundwork CLI for host provisioning and hardening",
	Long: `Groundwork provisions a fresh Linux host step by step: deploy user,
SSH hardening, containerized webserver, and a memory monitor, either as one
orchestrated run or as individual commands.`,
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

// HelpCmd wraps help so it can be invoked like a normal command.
var HelpCmd = &cobra.Command{
	Use:   "help",
	Short: "Help about any command",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return RootCmd.Help()
		}
		c, _, err := RootCmd.Find(args)
		if err != nil || c == nil {
			return fmt.Errorf("command not found: %s", strings.Join(args, " "))
		}
		return c.Help()
	}),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	RootCmd.SetHelpCommand(HelpCmd)

	// Accept underscored flag spellings from older wrapper scripts.
	RootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	for _, subCmd := range []*cobra.Command{
		provision.ProvisionCmd,
		create.CreateCmd,
		secure.SecureCmd,
		inspect.InspectCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute runs the root command and exits nonzero on any failure. Expected
// user errors log at warn level but still fail the process so wrapper
// scripts and the orchestrator see an honest exit code.
func Execute() {
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}()

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		if gw_err.IsExpectedUserError(err) {
			logger.L().Warn("Command completed with user error", zap.Error(err))
		} else {
			logger.L().Error("Command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
