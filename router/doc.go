// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the approval model API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Reads and form helpers (public):

	GET  /approval-models          - Summary rows, sorted by name
	GET  /approval-models/options  - Select options (?phasing=true adds restricted models)
	GET  /approval-models/{name}   - Stored content of one model
	POST /approval-models/resolve  - Expand model references in submission params
	POST /approval-models/evaluate - Preview an expression against the node
	GET  /approval-models/export   - Download approval.models.json

Model management (admin, requires X-Admin-Key):

	POST   /approval-models                               - Add a model
	DELETE /approval-models/{name}                        - Delete a model
	POST   /approval-models/{name}/rename                 - Rename a model
	POST   /approval-models/import                        - Merge an exported file
	POST   /approval-models/import/asset-control          - Import an asset's control as ASC
	POST   /approval-models/import/account-control        - Import an account's control as ACC

Added and renamed models have names of at most five characters, so none of
them collide with the literal path segments above. Import does not check
names. A model imported as "export" or "options" cannot be read through
GET /approval-models/{name}, since the literal GET routes win. It still
shows up in the summary rows and the download, and DELETE and rename reach
it because those methods have no literal routes.
*/
package router
