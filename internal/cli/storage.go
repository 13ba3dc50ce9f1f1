package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/pkg/config"
)

// storageCommand creates the storage management command.
func (c *CLI) storageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect or clear the storage backend",
	}

	cmd.AddCommand(c.storageInfoCommand())
	cmd.AddCommand(c.storageClearCommand())

	return cmd
}

// storageInfoCommand creates the "storage info" subcommand.
func (c *CLI) storageInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured backend and what it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, backend, err := c.openStore(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			printKeyValue("backend", backend.Name())
			switch cfg.Storage.Backend {
			case config.BackendFile, config.BackendSQLite:
				printKeyValue("path", cfg.Storage.Path)
			case config.BackendRedis, config.BackendMongo:
				printKeyValue("url", cfg.Storage.URL)
			}
			printKeyValue("key", cfg.Storage.Key)

			e := st.Enterprise()
			if len(e.Regions) == 0 {
				printInfo("Storage is empty")
				return nil
			}
			printKeyValue("enterprise", e.Name)
			printSummary(e)
			return nil
		},
	}
}

// storageClearCommand creates the "storage clear" subcommand.
func (c *CLI) storageClearCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored enterprise",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !yes {
				printWarning("This deletes the enterprise stored in %s storage", cfg.Storage.Backend)
				printNextStep("Run again to confirm", "assetcanvas storage clear --yes")
				return nil
			}
			st, backend, err := c.openStore(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := st.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared %s storage", backend.Name())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
