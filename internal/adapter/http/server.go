package adapthttp

import (
	"log/slog"
	"net/http"

	"artesanal/internal/app"
	"artesanal/internal/domain"
	"artesanal/internal/state"
)

// Server is the driving HTTP adapter: the storefront API plus the offline
// gateway for everything that is not an API route.
type Server struct {
	catalog *app.CatalogService
	auth    *app.AuthService
	store   *state.Store
	outbox  domain.OutboxRepository
	gateway http.Handler
	oidc    *OIDCConfig
	log     *slog.Logger
}

// New creates a Server wired to the given services. gateway may be nil when
// the node serves the API only.
func New(catalog *app.CatalogService, auth *app.AuthService, store *state.Store, outbox domain.OutboxRepository, gateway http.Handler, log *slog.Logger) *Server {
	return &Server{
		catalog: catalog,
		auth:    auth,
		store:   store,
		outbox:  outbox,
		gateway: gateway,
		log:     log,
	}
}

// WithOIDC enables the SSO login routes.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	s.oidc = cfg
	return s
}

func (s *Server) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}

// Handler returns the root http.Handler for the storefront node.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/products", s.handleProducts)
	api.HandleFunc("/products/", s.handleProductByID)
	api.HandleFunc("/categories", s.handleCategories)

	api.HandleFunc("/cart", s.handleCart)
	api.HandleFunc("/cart/complete", s.handleCompleteOrder)
	api.HandleFunc("/cart/", s.handleCartItem)

	api.HandleFunc("/wishlist", s.handleWishlist)
	api.HandleFunc("/wishlist/", s.handleWishlistItem)

	api.HandleFunc("/filters", s.handleFilters)

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/me", s.handleMe)
	api.HandleFunc("/auth/clear", s.handleClearData)
	if s.oidc != nil {
		api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
		api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)
	}
	api.Handle("/profile", s.authMiddleware(http.HandlerFunc(s.handleProfile)))

	api.HandleFunc("/contact", s.handleContact)
	api.HandleFunc("/newsletter", s.handleNewsletter)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", withNoCache(api)))
	if s.gateway != nil {
		root.Handle("/", s.gateway)
	}

	return s.loggingMiddleware(root)
}
