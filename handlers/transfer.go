// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/danielhkuo/approval-models/approval"
	"github.com/danielhkuo/approval-models/middleware"
	"github.com/danielhkuo/approval-models/models"
)

const maxImportBytes = 1 << 20

// ExportApprovalModels handles GET /approval-models/export
// Responds with a downloadable approval.models.json
func (h *ApprovalModelHandler) ExportApprovalModels(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Export()
	if err != nil {
		writeStoreError(w, err, "Failed to export approval models")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+approval.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportApprovalModels handles POST /approval-models/import
// The body is an exported mapping or a host file-read failure descriptor
func (h *ApprovalModelHandler) ImportApprovalModels(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Import file too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read import file")
		return
	}

	imported, err := approval.DecodeImport(data)
	if err != nil {
		writeStoreError(w, err, "Failed to import approval models")
		return
	}

	names, err := h.store.Import(r.Context(), imported)
	if err != nil {
		writeStoreError(w, err, "Failed to import approval models")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{Imported: names})
}

// ImportAssetControl handles POST /approval-models/import/asset-control
func (h *ApprovalModelHandler) ImportAssetControl(w http.ResponseWriter, r *http.Request) {
	var req models.ImportAssetControlRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Asset) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "asset is required")
		return
	}

	name, err := h.store.ImportAssetControl(r.Context(), strings.TrimSpace(req.Asset))
	if err != nil {
		writeStoreError(w, err, "Failed to import asset control")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{Imported: []string{name}})
}

// ImportAccountControl handles POST /approval-models/import/account-control
func (h *ApprovalModelHandler) ImportAccountControl(w http.ResponseWriter, r *http.Request) {
	var req models.ImportAccountControlRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Account) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account is required")
		return
	}

	name, err := h.store.ImportAccountControl(r.Context(), strings.TrimSpace(req.Account))
	if err != nil {
		writeStoreError(w, err, "Failed to import account control")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{Imported: []string{name}})
}
