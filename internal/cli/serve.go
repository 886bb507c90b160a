package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/server"
)

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP listen port (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP rule and check server",
	Long: "Runs the admin and check API over HTTP. Exposes rule CRUD, search,\n" +
		"export/import, the prompt brief, check/recheck, and Prometheus metrics.\n" +
		"The config file is hot-reloaded on change.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := server.New(ctx, server.Config{
		Port:       servePort,
		ConfigPath: cfgPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Hot-reload the engine when the config file changes.
	watchPath := cfgPath
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	reloader, err := server.NewReloader(srv, watchPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}
	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "copywatch server listening on :%d\n", srv.Port())
	fmt.Fprintf(os.Stderr, "Config: %s (hot-reload enabled)\n", watchPath)
	fmt.Fprintln(os.Stderr)

	return srv.Serve()
}
