// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/approval-models/approval"
	"github.com/danielhkuo/approval-models/cliparse"
	"github.com/danielhkuo/approval-models/middleware"
	"github.com/danielhkuo/approval-models/models"
	"github.com/danielhkuo/approval-models/nodeapi"
)

type ApprovalModelHandler struct {
	store *approval.Store
	cfg   cliparse.Config
}

func NewApprovalModelHandler(store *approval.Store, cfg cliparse.Config) *ApprovalModelHandler {
	return &ApprovalModelHandler{store: store, cfg: cfg}
}

// ListApprovalModels handles GET /approval-models
func (h *ApprovalModelHandler) ListApprovalModels(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.store.Rows())
}

// AddApprovalModel handles POST /approval-models
func (h *ApprovalModelHandler) AddApprovalModel(w http.ResponseWriter, r *http.Request) {
	var req models.AddApprovalModelRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	model, err := h.store.Add(r.Context(), approval.AddRequest{
		Name:        req.Name,
		Description: req.Description,
		Params:      req.Params.Values(),
	})
	if err != nil {
		writeStoreError(w, err, "Failed to add approval model")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddApprovalModelResponse{
		Name:  strings.TrimSpace(req.Name),
		Model: model,
	})
}

// GetApprovalModel handles GET /approval-models/{name}
func (h *ApprovalModelHandler) GetApprovalModel(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.View(r.PathValue("name"))
	if err != nil {
		writeStoreError(w, err, "Failed to load approval model")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// DeleteApprovalModel handles DELETE /approval-models/{name}
func (h *ApprovalModelHandler) DeleteApprovalModel(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeStoreError(w, err, "Failed to delete approval model")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenameApprovalModel handles POST /approval-models/{name}/rename
func (h *ApprovalModelHandler) RenameApprovalModel(w http.ResponseWriter, r *http.Request) {
	var req models.RenameApprovalModelRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.Rename(r.Context(), r.PathValue("name"), req.NewName); err != nil {
		writeStoreError(w, err, "Failed to rename approval model")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.store.Rows())
}

// ListOptions handles GET /approval-models/options
// ?phasing=true includes models that can only be used for phasing
func (h *ApprovalModelHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	includeRestricted := false
	if v := r.URL.Query().Get("phasing"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "phasing must be a boolean")
			return
		}
		includeRestricted = parsed
	}

	middleware.JSONResponse(w, http.StatusOK, h.store.ListForSelection(includeRestricted))
}

// Resolve handles POST /approval-models/resolve
func (h *ApprovalModelHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	form := req.Params.Values()
	if err := h.store.Resolve(form); err != nil {
		writeStoreError(w, err, "Failed to resolve approval models")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResolveResponse{Params: models.FormParamsFromValues(form)})
}

// EvaluateExpression handles POST /approval-models/evaluate
func (h *ApprovalModelHandler) EvaluateExpression(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateExpressionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	preview, err := h.store.PreviewExpression(r.Context(), req.Expression)
	if err != nil {
		writeStoreError(w, err, "Failed to evaluate expression")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, preview)
}

// writeStoreError maps store and node errors to HTTP responses
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	var verr *approval.ValidationError
	var hostErr *approval.HostFileError
	var nodeErr *nodeapi.Error

	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		switch verr.Code {
		case approval.CodeNotFound:
			status = http.StatusNotFound
		case approval.CodeAlreadyExists:
			status = http.StatusConflict
		}
		middleware.CodedErrorResponse(w, status, string(verr.Code), verr.Message)
	case errors.As(err, &hostErr):
		middleware.CodedErrorResponse(w, http.StatusBadRequest, "host_file_error", hostErr.Error())
	case errors.As(err, &nodeErr):
		middleware.CodedErrorResponse(w, http.StatusUnprocessableEntity, "node_error", nodeErr.Error())
	case errors.Is(err, approval.ErrNoModels):
		middleware.CodedErrorResponse(w, http.StatusNotFound, "no_models", err.Error())
	case errors.Is(err, nodeapi.ErrNodeFailed):
		slog.Error("node request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Node unavailable")
	default:
		slog.Error(fallback, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}
