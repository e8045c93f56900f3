// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and the JSON
item store.

# Connecting

Open connects to PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite),
pings the server and creates the schema:

	conn, err := db.Open(ctx, db.TypeSQLite, "file:approval.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are limited to one open connection, which also keeps
":memory:" databases alive for the lifetime of the pool.

# Schema Creation

CreateSchema initializes all required tables. Safe to call multiple
times - uses IF NOT EXISTS.

# Tables

  - json_item: JSON documents by key (item_key, payload, updated_at)

# Item Store

ItemStore reads and writes whole JSON documents:

	items := db.NewItemStore(conn)
	found, err := items.GetJSONItem(ctx, "approvalModels", &models)
	err = items.SetJSONItem(ctx, "approvalModels", models)

Writes are upserts; a missing key is reported as found == false, not as
an error.
*/
package db
