// Package fault defines failure kinds shared by install stages.
// Callers switch on KindOf(err) to pick a user-facing message.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	InvalidTarget
	DirectoryCreate
	TemplateRead
	Write
	NotFound
	Parse
	Merge
)

func (k Kind) String() string {
	switch k {
	case InvalidTarget:
		return "invalid target"
	case DirectoryCreate:
		return "create directory"
	case TemplateRead:
		return "read template"
	case Write:
		return "write"
	case NotFound:
		return "not found"
	case Parse:
		return "parse"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its Kind. Message is optional user-facing text.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: NotFound}) works.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func Newf(kind Kind, path string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// WithMessage attaches user-facing text to the error.
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// KindOf returns the kind of the first *Error in the chain, or Unknown.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}

// MessageOf returns the user-facing message of the first *Error in the chain.
func MessageOf(err error) string {
	var f *Error
	if errors.As(err, &f) {
		return f.Message
	}
	return ""
}
