package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrSlugConflict = errors.New("slug already in use")
)

// FieldIssue is a single validation failure, addressed by field path.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full issue list; nothing was persisted.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Field+": "+i.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StoreError marks which step of a multi-step write failed. Earlier steps
// stay committed; callers should re-read to confirm state.
type StoreError struct {
	Step string
	Err  error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store write failed at %s: %v", e.Step, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
