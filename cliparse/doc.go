// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type (sqlite or postgres)
	-node             Node API base URL
	-node-timeout     Timeout of one node call
	-env-file         Env file to load (default .env)
	-admin-salt       Admin key salt
	-print-admin-key  Print the admin key and exit

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	NODE_URL       → -node
	NODE_TIMEOUT   → -node-timeout
	ADMIN_KEY_SALT → -admin-salt

Precedence is CLI flag, then environment, then the env file. A missing env
file is not an error.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is not provided
  - ADMIN_KEY_SALT is not provided
  - DATABASE_TYPE is neither sqlite nor postgres
  - PORT or NODE_TIMEOUT cannot be parsed
*/
package cliparse
