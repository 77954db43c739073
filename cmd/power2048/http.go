package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/power2048/internal/platform/web"
)

var flagHTTPAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Start the REST and websocket API",
	Long: `Start an HTTP server exposing game sessions.

Routes:
  POST   /api/sessions              Create a session {base, mode, player}
  GET    /api/sessions              List sessions
  GET    /api/sessions/{id}         Session state
  DELETE /api/sessions/{id}         End a session
  POST   /api/sessions/{id}/move    {direction} or a swipe {dx, dy}
  POST   /api/sessions/{id}/reset   {base?, mode?}
  GET    /api/sessions/{id}/ws      Websocket state feed
  GET    /api/scores                ?base=&mode=&limit=
  GET    /api/health

Examples:
  power2048 http
  power2048 http --addr 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	RunE: runHTTP,
}

func init() {
	httpCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (default from config, :8080)")
}

func runHTTP(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}

	logger := newLogger("power2048-http")
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	manager := web.NewManager(web.ManagerOptions{
		Store:  store,
		Logger: logger,
		Seed:   cfg.Game.Seed,
		Base:   cfg.Game.Base,
		Mode:   cfg.Mode(),
	})

	server := web.NewServer(manager, store, web.ServerConfig{
		Address:        cfg.HTTP.Address,
		ReadTimeout:    cfg.HTTP.ReadTimeout(),
		WriteTimeout:   cfg.HTTP.WriteTimeout(),
		SwipeThreshold: cfg.Input.SwipeThreshold,
		Logger:         logger,
	})

	fmt.Printf("Starting Power 2048 HTTP server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
