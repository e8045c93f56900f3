// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the approval model API.

# Handler Types

ApprovalModelHandler wraps an approval.Store:

	modelHandler := handlers.NewApprovalModelHandler(store, cfg)

# Model Management

	POST   /approval-models               → AddApprovalModel (201)
	DELETE /approval-models/{name}        → DeleteApprovalModel (204)
	POST   /approval-models/{name}/rename → RenameApprovalModel

Admin operations require the X-Admin-Key header; the router enforces it.

# Submission Helpers

	GET  /approval-models/options  → ListOptions
	POST /approval-models/resolve  → Resolve
	POST /approval-models/evaluate → EvaluateExpression

Resolve takes the outgoing transaction parameters and returns them with
phasingApprovalModel and controlApprovalModel replaced by the serialized
models.

# Import and Export

	GET  /approval-models/export                  → ExportApprovalModels
	POST /approval-models/import                  → ImportApprovalModels
	POST /approval-models/import/asset-control    → ImportAssetControl
	POST /approval-models/import/account-control  → ImportAccountControl

# Errors

Store errors are mapped by writeStoreError:

	validation error      → 400 (not_found 404, already_exists 409)
	host file error       → 400 host_file_error
	node rejection        → 422 node_error
	empty export          → 404 no_models
	node unreachable      → 502
*/
package handlers
