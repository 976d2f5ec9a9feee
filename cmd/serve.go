package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/nodecanvas/render"
	"github.com/TFMV/nodecanvas/server"
	"github.com/TFMV/nodecanvas/view"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		port   int
		script string
	)

	cmd := &cobra.Command{
		Use:   "serve <scene>",
		Short: "Serve a scene over HTTP and accept input events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			doc, err := loadScene(args[0])
			if err != nil {
				return err
			}

			surface := render.NewSurface(nil)
			v := view.New(doc, surface, nil, view.OptionsFromConfig(cfg), logger)
			v.Load()

			s := server.New(v, doc, surface, logger)
			if script != "" {
				sc, err := loadScript(script)
				if err != nil {
					return err
				}
				if err := s.Replay(sc); err != nil {
					return err
				}
			}

			// Cancel on SIGINT/SIGTERM for a graceful shutdown
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			banner("serve")
			field("Scene", args[0])
			field("Address", subtle.Sprintf("http://localhost:%d/", cfg.Server.Port))
			return s.Run(ctx, server.DefaultConfig(cfg.Server.Port))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (overrides the config file)")
	cmd.Flags().StringVar(&script, "script", "", "Input script to replay before serving")
	return cmd
}
