// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package approval implements the approval model store.

An approval model is a named set of phasing parameters describing how a
pending transaction or an account control gets approved. The Store keeps
all models of an installation in memory and writes the complete mapping
to an ItemStore under StorageKey after every change:

	store := approval.NewStore(items, nodeClient)
	if err := store.Load(ctx); err != nil {
		return err
	}

# Adding Models

Add checks the name (1 to MaxNameLength characters, unique), then lets
the node validate the parameters. Composite models are boolean
expressions over other models; their references are checked before the
parameters are parsed:

  - a model may not reference itself
  - every referenced model must exist
  - a referenced model may not be composite itself

The referenced definitions are copied into phasingSubPolls. Later edits,
renames or deletions of those models do not reach the copies.

# Errors

Local rejections are *ValidationError values carrying an ErrorCode.
Rejections by the node are *nodeapi.Error values. Export of an empty
store returns ErrNoModels.

# Import and Export

Export produces indented JSON that Import (after DecodeImport) turns back
into the same mapping. ImportAssetControl and ImportAccountControl copy
an existing control from the node into the store under fixed names.
*/
package approval
