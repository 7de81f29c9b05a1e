package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"artesanal/internal/adapter/diskcache"
	adapthttp "artesanal/internal/adapter/http"
	"artesanal/internal/adapter/memory"
	"artesanal/internal/adapter/postgres"
	"artesanal/internal/adapter/sqlite"
	"artesanal/internal/app"
	"artesanal/internal/cache"
	"artesanal/internal/catalog"
	"artesanal/internal/config"
	"artesanal/internal/domain"
	"artesanal/internal/outbox"
	"artesanal/internal/state"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront node",
	Long:  "Serve the storefront API and the offline gateway, draining the form outbox in the background.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	ctx := cmd.Context()

	users, catalogRepo, stateRepo, closeRepos, err := openRepos(cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	outboxRepo, err := sqlite.Open(cfg.OutboxPath)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}
	defer func() { _ = outboxRepo.Close() }()

	store := state.New()
	persister := state.NewPersister(stateRepo, cfg.StateKey, log)
	if err := persister.Restore(ctx, store); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	persister.Attach(store)

	catalogSvc := app.NewCatalogService(catalogRepo)
	authSvc := app.NewAuthService(users, []byte(cfg.JWTSecret))

	gateway, err := openGateway(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := adapthttp.New(catalogSvc, authSvc, store, outboxRepo, gateway, log)
	if cfg.OIDCEnabled() {
		oidcCfg, err := newOIDCConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("oidc setup: %w", err)
		}
		srv = srv.WithOIDC(oidcCfg)
	}

	drainer := outbox.NewDrainer(outboxRepo, outbox.NewHTTPPoster(), outbox.Endpoints{
		domain.FormContact:    cfg.ContactEndpoint,
		domain.FormNewsletter: cfg.NewsletterEndpoint,
	}, log)
	go drainLoop(ctx, drainer, cfg.DrainInterval, log)

	log.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openRepos picks the persistence backend. Without DATABASE_URL the node
// runs on in-memory repositories seeded with the artisan catalog.
func openRepos(cfg config.Config) (domain.UserRepository, domain.CatalogRepository, domain.StateRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		mem := memory.New()
		mem.SeedProducts(catalog.Seed())
		return mem, mem, mem, func() {}, nil
	}
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return db, db, db, func() { _ = db.Close() }, nil
}

// openGateway builds the offline cache router fronting the upstream origin.
// A failed precache is logged but does not stop the node; routing degrades
// to network-first with whatever the caches already hold.
func openGateway(ctx context.Context, cfg config.Config, log *slog.Logger) (http.Handler, error) {
	cacheStore, err := openCacheStore(cfg)
	if err != nil {
		return nil, err
	}
	fetcher, err := cache.NewUpstreamFetcher(cfg.UpstreamOrigin)
	if err != nil {
		return nil, fmt.Errorf("upstream origin: %w", err)
	}

	if err := cache.Install(ctx, cacheStore, fetcher, cfg.PrecacheManifest, log); err != nil {
		log.Error("precache install", "error", err)
	}
	if err := cache.Activate(ctx, cacheStore, log); err != nil {
		return nil, fmt.Errorf("activate caches: %w", err)
	}

	return cache.NewRouter(cacheStore, fetcher, log), nil
}

func openCacheStore(cfg config.Config) (cache.Store, error) {
	if cfg.CacheDir == "" {
		return cache.NewMemoryStore(), nil
	}
	store, err := diskcache.New(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open cache dir: %w", err)
	}
	return store, nil
}

// newOIDCConfig discovers the issuer and builds the SSO provider wiring.
func newOIDCConfig(ctx context.Context, cfg config.Config) (*adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer: %w", err)
	}
	return &adapthttp.OIDCConfig{
		Provider: provider,
		OAuth2: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// drainLoop delivers anything left over from a previous run right away,
// then keeps draining on the interval.
func drainLoop(ctx context.Context, d *outbox.Drainer, interval time.Duration, log *slog.Logger) {
	if err := d.DrainAll(ctx); err != nil {
		log.Error("drain outbox", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.DrainAll(ctx); err != nil {
				log.Error("drain outbox", "error", err)
			}
		}
	}
}
