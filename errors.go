package xvmgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrMalformedDocument indicates the input is not valid metadata or a
	// required field is missing.
	ErrMalformedDocument = errors.New("xvmgen: malformed document")

	// ErrUnsupportedType indicates a raw type cannot be parsed into a Type or
	// denotes a construct outside the supported set.
	ErrUnsupportedType = errors.New("xvmgen: unsupported type")

	// ErrUnmappedType indicates a valid Type has no mapping for the active mode.
	ErrUnmappedType = errors.New("xvmgen: unmapped type")

	// ErrDuplicateSelector indicates two functions hash to the same selector.
	ErrDuplicateSelector = errors.New("xvmgen: duplicate selector")

	// ErrDuplicateIdentifier indicates two names of the generated source
	// normalize to the same identifier, or a name is reserved.
	ErrDuplicateIdentifier = errors.New("xvmgen: duplicated identifier")

	// ErrRender indicates an internal failure while expanding a template.
	ErrRender = errors.New("xvmgen: render error")

	// ErrInvalidMode indicates an unknown translation mode.
	ErrInvalidMode = errors.New("xvmgen: invalid translation mode")

	// ErrMissingModuleName indicates neither the caller nor the document
	// provided a module name.
	ErrMissingModuleName = errors.New("xvmgen: module name is required")
)

// DocumentError locates a structural problem in the input document.
type DocumentError struct {
	Path   string // JSON path of the offending element, e.g. "[3].inputs[0].type"
	Reason string
	Err    error // Underlying decode error, if any
}

func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedDocument.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedDocument}
	}
	return []error{ErrMalformedDocument, e.Err}
}

// TypeError reports a type that could not be parsed or mapped, with enough
// context to find it in the original metadata.
type TypeError struct {
	Function string
	Argument string // Empty for return types
	Position int    // Argument index, -1 for return types
	Raw      string // Raw type string as it appears in the document
	Err      error  // ErrUnsupportedType or ErrUnmappedType, possibly wrapped
}

func (e *TypeError) Error() string {
	where := "return type"
	if e.Position >= 0 {
		where = fmt.Sprintf("argument %d (%q)", e.Position, e.Argument)
	}
	if e.Function == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Raw)
	}
	return fmt.Sprintf("%v: %q in %s of function %q", e.Err, e.Raw, where, e.Function)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// DuplicateSelectorError reports two functions sharing a selector.
type DuplicateSelectorError struct {
	Selector Selector
	First    string // Canonical signature of the first function
	Second   string // Canonical signature of the second function
}

func (e *DuplicateSelectorError) Error() string {
	return fmt.Sprintf("%v %s shared by %s and %s",
		ErrDuplicateSelector, hexutil.Encode(e.Selector[:]), e.First, e.Second)
}

func (e *DuplicateSelectorError) Unwrap() error {
	return ErrDuplicateSelector
}

// IdentifierError reports a generated identifier that is already taken in
// its namespace.
type IdentifierError struct {
	Kind   string // "function", "constant" or "argument"
	Name   string // Normalized identifier
	First  string // Source name that claimed Name first, empty if reserved
	Second string // Source name that collided
	Scope  string // Enclosing function for arguments
}

func (e *IdentifierError) Error() string {
	where := ""
	if e.Scope != "" {
		where = fmt.Sprintf(" of function %q", e.Scope)
	}
	if e.First == "" {
		return fmt.Sprintf("%v: %s %q%s (normalized %q) is reserved",
			ErrDuplicateIdentifier, e.Kind, e.Second, where, e.Name)
	}
	return fmt.Sprintf("%v: %s %q and %q%s both normalize to %q",
		ErrDuplicateIdentifier, e.Kind, e.First, e.Second, where, e.Name)
}

func (e *IdentifierError) Unwrap() error {
	return ErrDuplicateIdentifier
}

// RenderError wraps a template expansion failure.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v in template %q: %v", ErrRender, e.Template, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// unsupported builds an ErrUnsupportedType with a reason.
func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedType, fmt.Sprintf(format, args...))
}

// unmapped builds an ErrUnmappedType for t in mode.
func unmapped(mode Mode, t Type) error {
	return fmt.Errorf("%w: %s has no %s mapping", ErrUnmappedType, t, mode)
}
