package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad   Phase = "load"   // module loading and compilation
	PhaseScan   Phase = "scan"   // wasm section scanning
	PhaseOpen   Phase = "open"   // resource lookup
	PhaseRead   Phase = "read"   // stream consumption and text decoding
	PhaseParse  Phase = "parse"  // XML tree parsing
	PhaseDecode Phase = "decode" // XML to Go mapping
	PhasePlan   Phase = "plan"   // deserialisation plan construction
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindMalformedXML    Kind = "malformed_xml"
	KindDeserialization Kind = "deserialization"
	KindInvalidData     Kind = "invalid_data"
	KindIO              Kind = "io"
	KindClosed          Kind = "closed"
	KindUnsupported     Kind = "unsupported"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	Module   string
	Resource string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Resource != "" || e.Module != "" {
		b.WriteString(": ")
		switch {
		case e.Resource != "" && e.Module != "":
			fmt.Fprintf(&b, "resource %q in module %q", e.Resource, e.Module)
		case e.Resource != "":
			fmt.Fprintf(&b, "resource %q", e.Resource)
		default:
			fmt.Fprintf(&b, "module %q", e.Module)
		}
	}

	if e.GoType != "" {
		if e.Resource != "" || e.Module != "" {
			b.WriteString(", ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString("Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Resource != "" || e.Module != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Is forwards to the standard library errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As forwards to the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Module sets the module identity
func (b *Builder) Module(name string) *Builder {
	b.err.Module = name
	return b
}

// Resource sets the resource name
func (b *Builder) Resource(name string) *Builder {
	b.err.Resource = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an error for a missing or unusable argument
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// ResourceNotFound creates a not-found error naming the resource and module
func ResourceNotFound(resource, module string, cause error) *Error {
	return &Error{
		Phase:    PhaseOpen,
		Kind:     KindNotFound,
		Resource: resource,
		Module:   module,
		Detail:   "no such resource",
		Cause:    cause,
	}
}

// MalformedXML creates an error for text that is not well-formed XML
func MalformedXML(resource string, cause error) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindMalformedXML,
		Resource: resource,
		Cause:    cause,
	}
}

// Deserialization creates an XML mapping failure for a Go type
func Deserialization(goType string, path []string, cause error) *Error {
	return New(PhaseDecode, KindDeserialization).
		GoType(goType).
		Path(path...).
		Cause(cause).
		Build()
}

// ReadFailed creates an I/O error raised while consuming a resource stream
func ReadFailed(resource, module string, cause error) *Error {
	return &Error{
		Phase:    PhaseRead,
		Kind:     KindIO,
		Resource: resource,
		Module:   module,
		Cause:    cause,
	}
}

// Closed creates an error for use of a released stream
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s already closed", what),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a scanning error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseScan,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
