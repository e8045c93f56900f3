// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.AdminScope, salt)
	err := auth.ValidateAdminKey(auth.AdminScope, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key. This allows validation
without storing the key in the database; operators obtain it with the
-print-admin-key flag.

Requests that change approval models carry the key in the X-Admin-Key
header. ValidateAdminKey returns ErrMissingAdminKey for an empty key and
ErrInvalidAdminKey for a wrong one.
*/
package auth
