// Command sample serves a small item catalog through any of the supported
// framework shims and can emit its OpenAPI document without serving at all.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crossbind/crossbind"
	"github.com/crossbind/crossbind/echoshim"
	"github.com/crossbind/crossbind/ginshim"
	"github.com/crossbind/crossbind/httpshim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sample",
		Short:         "Sample item catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newSpecCmd(&configPath))
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over the configured framework",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r := buildRouter(cfg)
			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"framework", cfg.Server.Framework,
				"routes", len(r.Routes()),
			)

			switch cfg.Server.Framework {
			case "gin":
				return serveGin(ctx, r, cfg.Server.Addr)
			case "echo":
				return serveEcho(ctx, r, cfg.Server.Addr)
			default:
				return serveHTTP(ctx, r, cfg.Server.Addr, logger)
			}
		},
	}
}

func serveHTTP(ctx context.Context, r *crossbind.Router, addr string, logger *slog.Logger) error {
	s, err := httpshim.Mount(r, httpshim.WithMiddleware(
		httpshim.Recovery(),
		httpshim.Logger(logger),
	))
	if err != nil {
		return err
	}
	if err := s.ServeRedoc("/redoc", "/openapi.json"); err != nil {
		return err
	}
	return s.ListenAndServe(ctx, addr)
}

func serveGin(ctx context.Context, r *crossbind.Router, addr string) error {
	s, err := ginshim.Mount(r, nil)
	if err != nil {
		return err
	}
	return serve(ctx, addr, s.Engine())
}

func serveEcho(ctx context.Context, r *crossbind.Router, addr string) error {
	s, err := echoshim.Mount(r, nil)
	if err != nil {
		return err
	}
	return serve(ctx, addr, s.Echo())
}

// serve runs any http.Handler with graceful shutdown on context cancellation.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

func newSpecCmd(configPath *string) *cobra.Command {
	var (
		output string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Write the OpenAPI document and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			r := buildRouter(cfg)
			if asYAML {
				return r.WriteSpecYAML(out)
			}
			return r.WriteSpec(out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "emit YAML instead of JSON")
	return cmd
}
