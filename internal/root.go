package internal

import (
	"fmt"

	"github.com/gemward/gemward/internal/logger"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gemward",
		Short: "Dependency-age policy checker for gem lockfiles",
		Long: `Gemward reads a dependency lockfile, looks up each gem's public release
date, and fails the build when any gem is younger than the configured
minimum age. Freshly published versions are where supply-chain attacks
live; gemward makes your build wait them out.`,
		Example: `gemward check
gemward check 30 --lockfile path/to/Gemfile.lock
gemward cleanup`,
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				fmt.Printf("Version: %s (%s)\n", Version, Commit)
				return
			}
			_ = cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.FlagQuiet, _ = cmd.Flags().GetBool("quiet")
			logger.FlagVerbose, _ = cmd.Flags().GetBool("verbose")
			logger.FlagJSON, _ = cmd.Flags().GetBool("json")
			logger.ConfigureLoggerFromFlags()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().String("lockfile", "Gemfile.lock", "Path to the dependency lockfile")
	cmd.PersistentFlags().String("config", ".gemward.yml", "Path to the policy configuration")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Print debug output")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON (CI)")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
