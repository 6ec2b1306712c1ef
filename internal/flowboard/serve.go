package flowboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

// runServeFunc indirects the blocking server loop so command wiring can
// be tested without binding a port.
var runServeFunc = runServe

func newServeCommand(cfg *Config) *cobra.Command {
	var addr string
	var seed, aiEnabled bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the FlowBoard sandbox API server.",
		Long: strings.TrimSpace(`Runs a self-contained FlowBoard backend in memory: the full HTTP API
with auth, boards, sprints and notifications, no database required.
Data lives for the lifetime of the process.`),
		Example: strings.TrimSpace(`flowboard serve
flowboard serve --addr 127.0.0.1:5050
flowboard serve --seed=false
flowboard serve --ai`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			serveAddr := strings.TrimSpace(addr)
			if !cmd.Flags().Changed("addr") {
				serveAddr = strings.TrimSpace(cfg.SandboxAddr)
			}
			if serveAddr == "" {
				return errors.New("--addr cannot be empty")
			}
			return runServeFunc(serveAddr, seed, aiEnabled)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "sandbox listen address (defaults to the configured sandbox addr)")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed the demo organization and accounts")
	cmd.Flags().BoolVar(&aiEnabled, "ai", false, "enable the AI suggestion endpoints")
	return cmd
}

func runServe(addr string, seed, aiEnabled bool) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runServeWithSignals(addr, seed, aiEnabled, sigCh)
}

func runServeWithSignals(addr string, seed, aiEnabled bool, sigCh chan os.Signal) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	app, err := sandbox.New(sandbox.Options{Logger: logger, Seed: seed, AIEnabled: aiEnabled})
	if err != nil {
		return fmt.Errorf("init sandbox failed: %w", err)
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting flowboard sandbox", "addr", addr, "seeded", seed, "ai_enabled", aiEnabled)
	if seed {
		logger.Info("demo account ready", "email", sandbox.DemoEmail, "password", sandbox.DemoPassword)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			serverErrCh <- listenErr
			return
		}
		serverErrCh <- nil
	}()

	select {
	case listenErr := <-serverErrCh:
		if listenErr != nil {
			return fmt.Errorf("listen failed: %w", listenErr)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	if err := httpServer.Close(); err != nil {
		return fmt.Errorf("http server close failed: %w", err)
	}
	if listenErr := <-serverErrCh; listenErr != nil {
		return fmt.Errorf("listen failed after shutdown: %w", listenErr)
	}
	logger.Info("sandbox stopped")
	return nil
}
