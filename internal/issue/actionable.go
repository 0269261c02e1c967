// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing compiler error: which pipeline step
	// failed, which file or table was involved, and what the user can do
	// about it. The CLI renders these instead of raw error chains.
	//
	// Construct through the ErrorContext builder:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load typedef").
	//		WithResource("./Items.typedef.json").
	//		WithSuggestion("Run 'tablec typedef' to create one").
	//		Wrap(originalErr).
	//		Build()
	ActionableError struct {
		// Operation is the pipeline step that failed, as a verb phrase
		// ("load typedef", "compile table", "generate csharp code").
		Operation string

		// Resource is the workbook, typedef file or table involved. Optional.
		Resource string

		// Suggestions are concrete next steps shown under the message. Optional.
		Suggestions []string

		// Cause is the underlying error. Optional.
		Cause error
	}

	// ErrorContext accumulates the pieces of an ActionableError as a
	// pipeline step runs, so the context set up before the fallible call
	// can be reused on every error path:
	//
	//	ctx := issue.NewErrorContext().
	//		WithOperation("read configuration workbooks").
	//		WithResource(cfg.Paths.InputDir)
	//	...
	//	return ctx.WithSuggestion("Check the [paths] section of config.toml.").Wrap(err).BuildError()
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewActionableError creates an ActionableError carrying only an operation.
// For anything richer use the ErrorContext builder.
func NewActionableError(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// NewErrorContext creates an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation attaches an operation to err. Returns nil for a nil err
// so it can wrap a call's result unconditionally.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext attaches an operation and a resource to err. Returns nil
// for a nil err.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error returns the one-line form used in non-verbose output:
// "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for the terminal: the one-line message, then a
// bulleted suggestion list, then (verbose only) the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
		}
	}

	return msg.String()
}

// HasSuggestions reports whether any suggestions were attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the failed pipeline step as a verb phrase, e.g.
// "load typedef" or "compile table".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the workbook, typedef file or table involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one next-step hint. May be called repeatedly.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several hints at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError. An operation is required; without one
// Build returns nil.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build as a plain error, convenient in return statements.
// Returns nil when no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
