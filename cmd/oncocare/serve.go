package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	adapthttp "oncocare/internal/adapter/http"
	"oncocare/internal/app"
	"oncocare/internal/catalog"
	"oncocare/internal/config"
)

const (
	demoName     = "Demo Kullanıcı"
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
)

type ServeCmd struct {
	Addr   string `help:"Listen address (overrides server.addr)."`
	NoAuth bool   `help:"Serve without login; all requests share one unscoped store."`
}

func (c *ServeCmd) Run(rt *Runtime) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := rt.Config
	log := rt.Log

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	srv, authSvc, err := newServer(ctx, cfg, be, log)
	if err != nil {
		return err
	}
	if c.NoAuth || cfg.Server.DisableAuth {
		srv = srv.WithoutAuth()
	}

	go purgeSessions(ctx, authSvc, log)

	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("storage", cfg.Storage.Driver))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// newServer wires the application services over be into an HTTP server.
func newServer(ctx context.Context, cfg *config.Config, be *backend, log *zap.Logger) (*adapthttp.Server, *app.AuthService, error) {
	opts := []app.Option{app.WithLogger(log)}
	moodSvc := app.NewMoodTracker(be.kv, opts...)
	medSvc := app.NewMedicationRegistry(be.kv, opts...)
	authSvc := app.NewAuthService(be.users, be.sessions,
		app.WithLogger(log),
		app.WithSimulatedLatency(cfg.Auth.SimulatedLatency),
	)

	if cfg.Auth.SeedDemoUser {
		created, err := authSvc.SeedUser(ctx, demoName, demoEmail, demoPassword)
		if err != nil {
			return nil, nil, err
		}
		if created {
			log.Info("seeded demo account", zap.String("email", demoEmail))
		}
	}

	symptoms, err := catalog.Load()
	if err != nil {
		return nil, nil, err
	}
	stories, err := catalog.LoadExperiences()
	if err != nil {
		return nil, nil, err
	}
	contact, expert := openInquiries(cfg, be.kv, log)

	srv := adapthttp.New(moodSvc, medSvc, authSvc, symptoms, log).
		WithGuard(be.guard, cfg.Server.IdempotencyTTL).
		WithExperiences(stories).
		WithInquiries(contact, expert)
	if cfg.Server.StaticDir != "" {
		srv = srv.WithWebDir(cfg.Server.StaticDir)
	}
	if cfg.OIDC.Enabled() {
		oc, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return nil, nil, err
		}
		srv = srv.WithOIDC(oc)
	}
	return srv, authSvc, nil
}

func purgeSessions(ctx context.Context, authSvc *app.AuthService, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authSvc.PurgeExpired(ctx); err != nil {
				log.Warn("purge expired sessions", zap.Error(err))
			}
		}
	}
}
