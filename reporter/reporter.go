// Package reporter contains the types used for reporting errors and
// warnings from parsing expression strings. Reporting errors through a
// pluggable reporter lets a caller decide whether parsing aborts on the
// first error or keeps going to collect as many as it can find.
package reporter

import (
	"sync"

	"github.com/gramsynth/gramsynth/grammar"
)

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, parsing will abort with that error.
// If the reporter returns nil, parsing will continue, allowing the
// parser to try to report as many syntax errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This
// is used for indicating non-error messages to the calling program for
// things that do not cause the parse to fail but are considered bad
// practice. Though they are just warnings, the details are supplied to
// the reporter via an error type.
type WarningReporter func(ErrorWithPos)

type Reporter interface {
	// Error is called when the given error is encountered and needs to
	// be reported to the calling program. This signature matches
	// ErrorReporter because it has the same semantics.
	Error(ErrorWithPos) error
	// Warning is called when the given warning is encountered and needs
	// to be reported to the calling program. Despite the argument being
	// an error type, this is a warning and the caller may deem it
	// recoverable.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on
// error or warning.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is used by the parser to handle errors and warnings. This type
// is thread-safe. It uses a mutex to serialize calls to its underlying
// reporter so that reporter instances do not have to be thread-safe
// (unless a single reporter is used across multiple handlers).
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings
// using the given reporter. A nil reporter aborts on the first error
// and ignores warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf handles an error with the given source position, creating
// the error using the given message format and arguments.
//
// If the handler has previously returned a non-nil error, that same
// error is returned and the given error is not reported.
func (h *Handler) HandleErrorf(pos grammar.SourcePos, format string, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(Errorf(pos, format, args...))
	h.err = err
	return err
}

// HandleError handles the given error. If the given error is an
// ErrorWithPos it is reported, and the handler returns whatever the
// reporter decided. Other errors abort immediately.
//
// If the handler has previously returned a non-nil error, that same
// error is returned and the given error is not reported.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning handles a warning with the given source position. This
// will delegate to the handler's configured reporter.
func (h *Handler) HandleWarning(pos grammar.SourcePos, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(Error(pos, err))
}

// Error returns the handler result. If any errors have been reported
// this returns a non-nil error. If the reporter never returned a non-nil
// error then ErrInvalidExpression is returned. Otherwise, this returns
// the error from the reporter.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidExpression
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter. If
// the reporter has either not been invoked or has not returned a non-nil
// result, this returns nil.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
