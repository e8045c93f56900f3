// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(context.Background(), TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "root@/db"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	// Open already created the schema once
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema failed: %v", err)
	}
}

func TestItemStore_Missing(t *testing.T) {
	store := NewItemStore(openTestDB(t))

	v := map[string]string{"untouched": "yes"}
	found, err := store.GetJSONItem(context.Background(), "absent", &v)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected absent key to be reported as not found")
	}
	if v["untouched"] != "yes" {
		t.Error("destination should not be modified for an absent key")
	}
}

func TestItemStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewItemStore(openTestDB(t))

	if err := store.SetJSONItem(ctx, "models", map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}

	var got map[string]int
	found, err := store.GetJSONItem(ctx, "models", &got)
	if err != nil {
		t.Fatal(err)
	}
	if !found || got["a"] != 1 {
		t.Errorf("expected stored item, got found=%v value=%v", found, got)
	}
}

func TestItemStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	store := NewItemStore(conn)

	if err := store.SetJSONItem(ctx, "models", map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetJSONItem(ctx, "models", map[string]int{"b": 2}); err != nil {
		t.Fatal(err)
	}

	var got map[string]int
	if _, err := store.GetJSONItem(ctx, "models", &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["b"] != 2 {
		t.Errorf("expected item to be replaced, got %v", got)
	}

	var rows int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM json_item`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("expected 1 row, got %d", rows)
	}
}

func TestItemStore_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	store := NewItemStore(conn)

	if _, err := conn.Exec(`INSERT INTO json_item (item_key, payload, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)`, "bad", "{"); err != nil {
		t.Fatal(err)
	}

	var got map[string]int
	if _, err := store.GetJSONItem(ctx, "bad", &got); err == nil {
		t.Error("expected decode error for corrupt payload")
	}
}
