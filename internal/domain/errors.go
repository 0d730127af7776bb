package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InvalidSortField reports a sort token that names no column on the sorted
// entity. Valid carries the full column set so the client can self-correct.
type InvalidSortField struct {
	Field string
	Valid []string
}

func (e InvalidSortField) Error() string {
	return fmt.Sprintf("invalid sort field: %s. Must be one of [%s]", e.Field, strings.Join(e.Valid, ", "))
}

// InvalidFilterOperator reports an unsupported filter operation.
type InvalidFilterOperator struct {
	Op      string
	Allowed []string
}

func (e InvalidFilterOperator) Error() string {
	return fmt.Sprintf("invalid filter operator: %s. Must be one of [%s]", e.Op, strings.Join(e.Allowed, ", "))
}

// ConflictingBinSpec is returned when a chart request supplies both a bin
// frequency and a bin count; their boundary alignment rules are incompatible.
type ConflictingBinSpec struct{}

func (e ConflictingBinSpec) Error() string {
	return "freq and num_bins are mutually exclusive"
}

// MalformedSearchFields reports an unusable search_fields parameter.
type MalformedSearchFields struct {
	Msg string
	Err error
}

func (e MalformedSearchFields) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("malformed search_fields: %s", e.Msg)
	}
	return "malformed search_fields"
}

func (e MalformedSearchFields) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsBadRequest reports whether err should surface as a client error.
func IsBadRequest(err error) bool {
	var sortErr InvalidSortField
	var opErr InvalidFilterOperator
	var binErr ConflictingBinSpec
	var searchErr MalformedSearchFields
	return IsValidation(err) ||
		errors.As(err, &sortErr) ||
		errors.As(err, &opErr) ||
		errors.As(err, &binErr) ||
		errors.As(err, &searchErr)
}
