package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/TFMV/nodecanvas/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the TOML configuration",
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "nodecanvas.toml"
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(cmd.OutOrStdout(), path, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

// runConfigInit writes the defaults, refusing to replace an existing file
// unless force is set.
func runConfigInit(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	good.Fprintf(w, "  Wrote %s\n", path)
	return nil
}
