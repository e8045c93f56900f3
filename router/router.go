// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/approval-models/approval"
	"github.com/danielhkuo/approval-models/cliparse"
	"github.com/danielhkuo/approval-models/handlers"
	"github.com/danielhkuo/approval-models/middleware"
)

func NewRouter(store *approval.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	modelHandler := handlers.NewApprovalModelHandler(store, cfg)

	// admin wraps mutating routes with logging and the admin key check
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithAdminKey(cfg.AdminKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Reads and form helpers (public)
	mux.HandleFunc("GET /approval-models", middleware.WithLogging(modelHandler.ListApprovalModels))
	mux.HandleFunc("GET /approval-models/options", middleware.WithLogging(modelHandler.ListOptions))
	mux.HandleFunc("GET /approval-models/{name}", middleware.WithLogging(modelHandler.GetApprovalModel))
	mux.HandleFunc("POST /approval-models/resolve", middleware.WithLogging(modelHandler.Resolve))
	mux.HandleFunc("POST /approval-models/evaluate", middleware.WithLogging(modelHandler.EvaluateExpression))

	// Model management (admin)
	mux.HandleFunc("POST /approval-models", admin(modelHandler.AddApprovalModel))
	mux.HandleFunc("DELETE /approval-models/{name}", admin(modelHandler.DeleteApprovalModel))
	mux.HandleFunc("POST /approval-models/{name}/rename", admin(modelHandler.RenameApprovalModel))

	// Import and export
	mux.HandleFunc("GET /approval-models/export", middleware.WithLogging(modelHandler.ExportApprovalModels))
	mux.HandleFunc("POST /approval-models/import", admin(modelHandler.ImportApprovalModels))
	mux.HandleFunc("POST /approval-models/import/asset-control", admin(modelHandler.ImportAssetControl))
	mux.HandleFunc("POST /approval-models/import/account-control", admin(modelHandler.ImportAccountControl))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("approval-models API v1"))
	})

	return mux
}
