// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoModels is returned by Export when there is nothing to export
var ErrNoModels = errors.New("no approval models available")

type ErrorCode string

const (
	CodeNameRequired       ErrorCode = "name_required"
	CodeNameTooLong        ErrorCode = "name_too_long"
	CodeAlreadyExists      ErrorCode = "already_exists"
	CodeNotFound           ErrorCode = "not_found"
	CodeSelfReference      ErrorCode = "self_reference"
	CodeUnknownVariable    ErrorCode = "unknown_variable"
	CodeRecursiveReference ErrorCode = "recursive_reference"
	CodeNoAssetControl     ErrorCode = "no_asset_control"
	CodeNoAccountControl   ErrorCode = "no_account_control"
	CodeInvalidImport      ErrorCode = "invalid_import"
)

// ValidationError is a local, user-correctable rejection. The store is
// never modified when one is returned.
type ValidationError struct {
	Code    ErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code ErrorCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a ValidationError with the given code
func IsCode(err error, code ErrorCode) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Code == code
}

// HostFileError is the failure descriptor a host file reader hands back
// instead of a model mapping.
type HostFileError struct {
	Message string `json:"error"`
	Type    int    `json:"type"`
	File    string `json:"file"`
	Folder  string `json:"folder"`
}

// HostFileErrorWithContext marks a descriptor whose message must be read
// together with the file and folder it refers to.
const HostFileErrorWithContext = 1

func (e *HostFileError) Error() string {
	if e.Type != HostFileErrorWithContext {
		return e.Message
	}
	msg := strings.NewReplacer("__file__", e.File, "__folder__", e.Folder).Replace(e.Message)
	if msg == e.Message {
		msg = fmt.Sprintf("%s (file: %s, folder: %s)", e.Message, e.File, e.Folder)
	}
	return msg
}
