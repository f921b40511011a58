package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engYuns/rengintech/internal/http/handlers"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
)

func newServeCmd() *cobra.Command {
	var port string
	var secureCookie bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := repos.Open(ctx, cfg.Storage())
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()
			if fileStore, ok := store.(*repos.FileStore); ok {
				log.Printf("[storage] file -> %s", fileStore.Path())
			}

			if cfg.SessionSecret == "" {
				log.Printf("[warn] SESSION_SECRET not set; admin sessions will not survive a restart")
			}
			auth, err := services.NewAuthService(store, cfg.SessionSecret, cfg.SessionTTL, cfg.AdminUsername)
			if err != nil {
				return err
			}
			if cfg.AdminPassword != "" {
				created, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
				if err != nil {
					return fmt.Errorf("bootstrap admin: %w", err)
				}
				if created {
					log.Printf("[admin] created admin %q", cfg.AdminUsername)
				}
			}

			logos, err := services.NewLogoStore(cfg.UploadDir, int64(cfg.MaxUploadBytes))
			if err != nil {
				return fmt.Errorf("upload dir: %w", err)
			}
			log.Printf("[static] /uploads -> %s", logos.Dir)

			app := handlers.NewApp(handlers.NewDeps(store, auth, logos), handlers.AppOptions{
				AccessLog:    true,
				BodyLimit:    cfg.MaxUploadBytes + 1<<20,
				SecureCookie: secureCookie,
			})

			go func() {
				<-ctx.Done()
				log.Printf("[server] shutting down")
				_ = app.Shutdown()
			}()
			return app.Listen(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&secureCookie, "secure-cookie", false, "mark the session cookie Secure (set behind HTTPS)")
	return cmd
}
