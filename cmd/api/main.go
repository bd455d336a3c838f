package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	_ "github.com/jackc/pgx/v5/stdlib"

	"acadcollab.org/internal/auth"
	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/config"
	"acadcollab.org/internal/httpapi"
	"acadcollab.org/internal/identity"
	"acadcollab.org/internal/notify"
	"acadcollab.org/internal/obs"
	filestore "acadcollab.org/internal/store/file"
	pgstore "acadcollab.org/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

// store is what main needs from either persistence backend.
type store interface {
	identity.Store
	collab.Store
	Ping(ctx context.Context) error
}

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.Secret == "" {
		log.Fatal("ACADCOLLAB_AUTH_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st store
		db *sql.DB
	)
	if cfg.Store.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.Store.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		defer db.Close()

		pg := pgstore.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		st = pg
	} else {
		fs, err := filestore.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		st = fs
	}

	identitySvc, err := identity.NewService(st,
		identity.WithBcryptCost(cfg.Auth.BcryptCost),
		identity.WithTicketTTL(cfg.Auth.TicketTTL),
		identity.WithAdminSignup(cfg.Auth.AllowAdminSignup),
	)
	if err != nil {
		log.Fatalf("identity service: %v", err)
	}
	collabSvc, err := collab.NewService(st)
	if err != nil {
		log.Fatalf("collab service: %v", err)
	}
	authority, err := auth.NewAuthority(cfg.Auth.Secret, auth.WithTokenTTL(cfg.Auth.TokenTTL))
	if err != nil {
		log.Fatalf("token authority: %v", err)
	}

	api, err := httpapi.New(httpapi.Options{
		Identity:           identitySvc,
		Collab:             collabSvc,
		Authority:          authority,
		Notifier:           notify.LogNotifier{},
		Prober:             st,
		Version:            version,
		MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
	})
	if err != nil {
		log.Fatalf("http api: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	log.Printf("Starting acadcollab-api %s on %s", version, srv.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("Stopped")
}
