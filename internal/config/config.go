// Package config loads storefront configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. When DatabaseURL is empty the node
// runs on in-memory repositories with the seed catalog, matching the
// storefront's mock-data mode.
type Config struct {
	Addr           string `env:"ADDR" envDefault:":8080"`
	UpstreamOrigin string `env:"UPSTREAM_ORIGIN" envDefault:"https://tienda.choco-artesanal.co"`

	DatabaseURL string `env:"DATABASE_URL"`
	OutboxPath  string `env:"OUTBOX_PATH" envDefault:"artesanal-outbox.db"`
	CacheDir    string `env:"CACHE_DIR"`

	StateKey  string `env:"STATE_KEY" envDefault:"choco-artesanal-store"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	OIDCIssuer       string `env:"OIDC_ISSUER"`
	OIDCClientID     string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL"`

	ContactEndpoint    string        `env:"CONTACT_ENDPOINT" envDefault:"https://tienda.choco-artesanal.co/api/contact"`
	NewsletterEndpoint string        `env:"NEWSLETTER_ENDPOINT" envDefault:"https://tienda.choco-artesanal.co/api/newsletter"`
	DrainInterval      time.Duration `env:"DRAIN_INTERVAL" envDefault:"5m"`

	PrecacheManifest []string `env:"PRECACHE_MANIFEST" envSeparator:"," envDefault:"/,/manifest.json,/assets/index.js,/assets/index.css,/icons/icon-192.png,/icons/icon-512.png"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// OIDCEnabled reports whether SSO login is configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}
