// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the approval model server.

An approval model is a named, reusable set of phasing parameters for
transactions submitted to a blockchain node. The server validates new
models against the node, keeps them in a database and rewrites outgoing
transaction parameters that refer to them by name.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:approval.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -node http://localhost:27876

Print the admin key for mutating requests:

	go run . -print-admin-key

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - NODE_URL (-node): Node API base URL (default: http://localhost:27876)
  - NODE_TIMEOUT (-node-timeout): Timeout of one node call (default: 10s)

Values can also come from an env file (-env-file, default .env).

# Architecture

  - approval: The model store, validation pipeline, selection and import/export
  - nodeapi: Client for the node's HTTP API
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin key check, JSON helpers
  - models: Approval model and request/response types
  - auth: Admin key derivation
  - db: Connection setup, schema and the JSON item store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
