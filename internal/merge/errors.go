package merge

import (
	"errors"
	"fmt"

	"smartbeaver/internal/syntax"
)

var (
	// ErrNotFound marks a missing anchor. A missing main module is fatal; a
	// missing storage struct or constructor is only reported.
	ErrNotFound = syntax.ErrNotFound

	// ErrAmbiguousMergeDirective marks a method carrying both append and
	// replace. The method is treated as having no directive.
	ErrAmbiguousMergeDirective = errors.New("ambiguous merge directive")

	// ErrUnsupportedImport marks an aliased or glob import in an extension.
	// It aborts the whole merge.
	ErrUnsupportedImport = errors.New("unsupported import")

	// ErrMalformedAttribute marks an append line payload that is not
	// `line = <int>`. The line falls back to 0.
	ErrMalformedAttribute = syntax.ErrMalformedAttribute
)

// Error is a fatal merge failure. Kind is one of the sentinels above.
type Error struct {
	Kind      error
	Extension string // empty for the base contract
	Detail    string
}

func (e *Error) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("merge base: %v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("merge %s: %v: %s", e.Extension, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// Diagnostic records a non-fatal event. Kind is the matching sentinel, or nil
// for plain notices such as a skipped method.
type Diagnostic struct {
	Kind      error
	Extension string
	Message   string
}

func (d Diagnostic) String() string {
	prefix := d.Extension
	if prefix == "" {
		prefix = "base"
	}
	return prefix + ": " + d.Message
}
