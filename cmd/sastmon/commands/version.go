package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// NewVersionCommand defines the 'version' command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the " + cliExecutable + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", cliExecutable, Version)
		},
	}
}
