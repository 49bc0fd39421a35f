// Package delegate wraps the hosted language models the analysis pipeline
// calls. A delegate answers in one of two modes: structured, validated
// against the fixed skills/keywords shape, or free text.
package delegate

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Shape is the only structured answer a delegate may give.
type Shape struct {
	Skills   []string `json:"skills"`
	Keywords []string `json:"keywords"`
}

type Tag int

const (
	TagOK Tag = iota
	TagSchemaError
	TagTransportError
)

func (t Tag) String() string {
	switch t {
	case TagOK:
		return "ok"
	case TagSchemaError:
		return "schema_error"
	case TagTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// Result is the tagged outcome of a structured call. Shape is only
// meaningful when Tag is TagOK.
type Result struct {
	Tag   Tag
	Shape Shape
	Raw   string
	Cause error
}

func OK(shape Shape) Result {
	return Result{Tag: TagOK, Shape: shape}
}

func SchemaFailure(raw string, cause error) Result {
	return Result{Tag: TagSchemaError, Raw: raw, Cause: cause}
}

func TransportFailure(cause error) Result {
	return Result{Tag: TagTransportError, Cause: cause}
}

// Err returns nil for an OK result and an *Error otherwise.
func (r Result) Err() error {
	if r.Tag == TagOK {
		return nil
	}
	return &Error{Tag: r.Tag, Raw: r.Raw, Err: r.Cause}
}

// Error is a failed delegate call. Raw holds the model output that failed
// validation, if there was any.
type Error struct {
	Tag Tag
	Raw string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Tag.String()
	}
	return e.Tag.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is a delegate response that did not
// match the expected shape.
func IsSchemaError(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Tag == TagSchemaError
}

func IsTransportError(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Tag == TagTransportError
}

// Delegate is safe for concurrent use by independent runs.
type Delegate interface {
	Structured(ctx context.Context, prompt string) Result
	FreeText(ctx context.Context, prompt string) (string, error)
}

func transportError(err error) error {
	return &Error{Tag: TagTransportError, Err: err}
}
