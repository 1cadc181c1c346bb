package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lunarpark/hearthside/internal/config"
	"github.com/lunarpark/hearthside/internal/content"
	"github.com/lunarpark/hearthside/internal/engine"
	"github.com/lunarpark/hearthside/internal/server"
	"github.com/lunarpark/hearthside/internal/store"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a YAML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	// Env overrides for containers and tests
	if dir := os.Getenv("HEARTHSIDE_DATA_DIR"); dir != "" {
		cfg.Content.Dir = dir
	}
	if path := os.Getenv("HEARTHSIDE_DB"); path != "" {
		cfg.Database.Path = path
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lib, err := loadContent(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	eng := engine.New(db, lib)
	if cfg.Game.RandomSeed != 0 {
		eng.SetRand(engine.NewRand(cfg.Game.RandomSeed))
	}
	if err := db.EnsureWallet(engine.PlayerWallet, cfg.Game.StartingFunds); err != nil {
		return fmt.Errorf("seed wallet: %w", err)
	}
	eng.StartDecayTimer()
	defer eng.Stop()

	srv := server.New(db, eng, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "hearthside serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if cfg.Content.Dir != "" {
			fmt.Fprintf(os.Stderr, "  content: %s\n", cfg.Content.Dir)
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

func loadContent(dir string) (*content.Library, error) {
	if dir == "" {
		return content.Default()
	}
	return content.Load(dir)
}
