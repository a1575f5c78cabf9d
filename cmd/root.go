package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltessier/keepsake/cmd/kv"
)

const (
	Version = "0.4.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "keepsake",
		Short: "namespaced key-value cache with write-through persistence",
		Long: fmt.Sprintf(`keepsake (v%s)

A namespaced, in-memory key-value cache with asynchronous write-through
to durable namespace files. Reads are in-memory and immediate; writes are
persisted in the background.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of keepsake",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("keepsake v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
