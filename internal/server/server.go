package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/handler"
	"github.com/dukerupert/larder/internal/middleware"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/store"
	ws "github.com/dukerupert/larder/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	accountH      *handler.AccountHandler
	recipeH       *handler.RecipeHandler
	pantryH       *handler.InventoryHandler
	shoppingListH *handler.InventoryHandler
	authService   *auth.Service
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, secureCookies bool, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	apiKeyStore := store.NewAPIKeyStore(db)
	inventoryStore := store.NewInventoryStore(db)
	recipeStore := store.NewRecipeStore(db)

	authSvc := auth.NewService(userStore, sessionStore, apiKeyStore, logger.With("component", "auth"))

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(authSvc, sessionStore, secureCookies, logger.With("component", "auth_handler")),
		accountH:      handler.NewAccountHandler(authSvc, userStore, logger.With("component", "account")),
		recipeH:       handler.NewRecipeHandler(recipeStore, inventoryStore, hub, logger.With("component", "recipe")),
		pantryH:       handler.NewInventoryHandler(model.KindPantry, inventoryStore, hub, logger.With("component", "pantry")),
		shoppingListH: handler.NewInventoryHandler(model.KindShoppingList, inventoryStore, hub, logger.With("component", "shopping_list")),
		authService:   authSvc,
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/v1/keys", s.rateLimitedHandler(s.authH.RefreshKey))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.authService)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Account API routes
	mux.HandleFunc("GET /api/v1/me", s.accountH.Me)
	mux.HandleFunc("PUT /api/v1/me", s.accountH.UpdateMe)
	mux.HandleFunc("PUT /api/v1/me/password", s.accountH.ChangePassword)
	mux.HandleFunc("DELETE /api/v1/me", s.accountH.DeleteMe)

	// Recipe API routes
	mux.HandleFunc("POST /api/v1/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/v1/recipes", s.recipeH.List)
	mux.HandleFunc("GET /api/v1/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/v1/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/v1/recipes/{id}", s.recipeH.Delete)

	// Pantry API routes
	mux.HandleFunc("GET /api/v1/pantry/items", s.pantryH.ListItems)
	mux.HandleFunc("POST /api/v1/pantry/items", s.pantryH.CreateItem)
	mux.HandleFunc("PUT /api/v1/pantry/items/{id}", s.pantryH.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/pantry/items/{id}", s.pantryH.DeleteItem)

	// Shopping list API routes
	mux.HandleFunc("GET /api/v1/shopping-list/items", s.shoppingListH.ListItems)
	mux.HandleFunc("POST /api/v1/shopping-list/items", s.shoppingListH.CreateItem)
	mux.HandleFunc("PUT /api/v1/shopping-list/items/{id}", s.shoppingListH.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/shopping-list/items/{id}", s.shoppingListH.DeleteItem)

	// WebSocket for live entity updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
