package engine

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a rejected operation. A rejected operation never
// mutates state.
type ErrorKind string

const (
	// KindValidation covers bad amounts, bad dates and future toggles.
	KindValidation ErrorKind = "validation"

	// KindNotFound covers toggling or editing an entity that does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindIllegalState covers reversing a reversed or non-reversible entry
	// and editing a reversed or non-progress entry.
	KindIllegalState ErrorKind = "illegal_state"
)

// Error is returned by engine operations that reject their input.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func newError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) ErrorKind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsNotFound reports whether err is a missing-entity rejection.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsIllegalState reports whether err is a consistency rejection.
func IsIllegalState(err error) bool { return kindOf(err) == KindIllegalState }

// WarningCode identifies a soft failure that did not stop an operation.
type WarningCode string

const (
	WarnOrphanedReference WarningCode = "orphaned_reference"
	WarnUnparseableAmount WarningCode = "unparseable_amount"
	WarnUnparseableDate   WarningCode = "unparseable_date"
	WarnStaleHabitEntry   WarningCode = "stale_habit_entry"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func warnf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
