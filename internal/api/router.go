package api

import (
	"database/sql"
	"net/http"

	"github.com/lkosir/najdeno/internal/blob"
	"github.com/lkosir/najdeno/internal/intake"
	"github.com/lkosir/najdeno/internal/lifecycle"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, blobs blob.Store, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	controller := &lifecycle.Controller{DB: db}
	pipeline := &intake.Pipeline{Lifecycle: controller, Blobs: blobs}

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	reportsHandler := &ReportsHandler{Pipeline: pipeline}
	claimsHandler := &ClaimsHandler{DB: db, Lifecycle: controller}
	adminHandler := &AdminHandler{DB: db, Lifecycle: controller}

	authMW := AuthMiddleware(jwtSecret)

	// Public: browse and search approved items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)

	// Public: report intake.
	mux.HandleFunc("POST /api/reports", reportsHandler.Create)
	mux.HandleFunc("POST /api/reports/validate", reportsHandler.ValidateStage)

	// Public: claim submission (approved items only).
	mux.HandleFunc("POST /api/items/{id}/claims", claimsHandler.Create)

	// Admin session.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Admin dashboard.
	mux.Handle("GET /api/admin/items", authMW(http.HandlerFunc(adminHandler.ListItems)))
	mux.Handle("POST /api/admin/items/{id}/approve", authMW(http.HandlerFunc(adminHandler.ApproveItem)))
	mux.Handle("POST /api/admin/items/{id}/return", authMW(http.HandlerFunc(adminHandler.ReturnItem)))
	mux.Handle("DELETE /api/admin/items/{id}", authMW(http.HandlerFunc(adminHandler.DeleteItem)))
	mux.Handle("GET /api/admin/claims", authMW(http.HandlerFunc(adminHandler.ListClaims)))
	mux.Handle("POST /api/admin/claims/{id}/approve", authMW(http.HandlerFunc(adminHandler.ApproveClaim)))
	mux.Handle("POST /api/admin/claims/{id}/deny", authMW(http.HandlerFunc(adminHandler.DenyClaim)))
	mux.Handle("GET /api/admin/stats", authMW(http.HandlerFunc(adminHandler.Stats)))

	return mux
}
