// Package kv implements the key-value command group of the CLI.
package kv

import (
	"github.com/spf13/cobra"

	"github.com/ltessier/keepsake/cmd/util"
	"github.com/ltessier/keepsake/lib/store"
)

var (
	kvStore store.Store

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key-value cache operations on a namespace",
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common store flags to the KV command
	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setStringCmd)
	KeyValueCommands.AddCommand(setIntCmd)
	KeyValueCommands.AddCommand(setLongCmd)
	KeyValueCommands.AddCommand(setFloatCmd)
	KeyValueCommands.AddCommand(setBoolCmd)
	KeyValueCommands.AddCommand(setJSONCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(sizeCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupStore opens the configured namespace
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := util.InitLogger(); err != nil {
		return err
	}

	s, err := store.Create(util.GetNamespace(), util.GetStoreOptions())
	if err != nil {
		return err
	}
	kvStore = s
	return nil
}

// teardownStore drains pending commits before the process exits
func teardownStore(_ *cobra.Command, _ []string) error {
	if kvStore == nil {
		return nil
	}
	return kvStore.Close()
}
