package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/nodecanvas/config"
	"github.com/TFMV/nodecanvas/ingest"
	"github.com/TFMV/nodecanvas/log"
	"github.com/TFMV/nodecanvas/models"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configPath string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "nodecanvas",
	Short: "nodecanvas: node editor geometry and interaction engine",
	Long: brand.Sprint("nodecanvas") + " drives a node graph editor surface from recorded input\n" +
		subtle.Sprint("Load a scene, replay pointer input, render or serve the result"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("nodecanvas {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		configCmd(),
		versionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		bad.Fprintf(os.Stderr, "nodecanvas: %v\n", err)
	}
	return err
}

// setup loads the configuration and builds the logger
func setup() (*config.Config, log.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := log.ParseLevel(cfg.Log.Level)
	if debugMode {
		level = log.LogLevelDebug
	}
	return cfg, log.New(os.Stderr, "[nodecanvas] ", level), nil
}

// loadScene reads a scene file; .csv files are edge lists, anything else a
// JSON fixture.
func loadScene(path string) (*models.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	format := "json"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		format = "csv"
	}
	processor, err := ingest.GetProcessor(format)
	if err != nil {
		return nil, err
	}
	return processor.ProcessData(data)
}

// loadScript reads an input script; an empty path means no script
func loadScript(path string) (*ingest.Script, error) {
	if path == "" {
		return &ingest.Script{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ingest.ParseScript(data)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nodecanvas %s\n", version)
		},
	}
}
