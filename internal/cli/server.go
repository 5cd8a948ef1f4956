package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goPredictd/internal/config"
	"github.com/LeJamon/goPredictd/internal/core/node"
	_ "github.com/LeJamon/goPredictd/internal/core/tx/all"
	"github.com/LeJamon/goPredictd/internal/rpc"
	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/LeJamon/goPredictd/internal/storage/eventdb"
	"github.com/LeJamon/goPredictd/internal/storage/state"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the predictd node",
	Long: `Start the node. It produces a block every block_interval and serves:
- HTTP JSON-RPC on /
- the websocket event stream on the configured ws_path
- a health check on /health

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the node and its listeners until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gen, err := cfg.Genesis.ToGenesis()
	if err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	dir, err := cfg.RulerDirectory()
	if err != nil {
		return err
	}

	backend := database.Backend(cfg.Database.Backend)
	if backend != database.BackendMemory {
		if err := os.MkdirAll(cfg.Node.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	manager, err := state.NewManager(backend, cfg.DatabasePath(), int64(cfg.Database.CacheSize)<<20)
	if err != nil {
		return err
	}
	defer manager.Close()

	db, err := manager.OpenDB("state")
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	store, err := state.NewStore(db, state.Options{
		Compression:  cfg.Database.Compression,
		CacheEntries: cfg.Database.CacheEntries,
	})
	if err != nil {
		return err
	}

	hub := rpc.NewHub(cfg.Server.SendQueueLimit, logger)
	sinks := []node.EventSink{hub}
	services := &rpc.Services{}

	if cfg.EventDB.Enabled() {
		events, err := eventdb.Open(ctx, cfg.EventDB.Driver, cfg.EventDB.DSN, logger)
		if err != nil {
			return err
		}
		defer events.Close()
		sinks = append(sinks, events)
		services.Events = events
	}

	n := node.New(node.Config{
		Genesis:                   gen,
		BlockInterval:             cfg.Node.BlockInterval,
		Ruler:                     dir,
		SkipSignatureVerification: cfg.Node.Standalone,
	}, store, nil, logger, sinks...)
	if err := n.Start(ctx); err != nil {
		return err
	}
	services.Chain = n

	if cfg.Node.Standalone {
		logger.Warn("standalone mode: transaction signatures are not verified")
	}

	srv := rpc.NewServer(services, hub, cfg.Server.WSPath, logger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return n.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("rpc listening",
			slog.String("address", httpServer.Addr),
			slog.String("ws_path", cfg.Server.WSPath),
			slog.Int("methods", len(srv.Methods())),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("node stopped")
	return err
}
