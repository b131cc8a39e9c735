package internal

import (
	"github.com/gemward/gemward/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(middleware.RequireLockfile, middleware.LoadConfig)(NewCheckCmd),
	middleware.UseMiddlewareChain(middleware.RequireLockfile, middleware.LoadConfig)(NewCleanupCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
