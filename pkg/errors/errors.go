package errors

import (
	"fmt"
	"os"

	"github.com/buger/goterm"
)

// ContextError is an error that has information on what caused it.
type ContextError interface {
	Cause() error
	Context() string

	Error() string
}

// A FriendlyError is an error that can be printed to the user directly,
// without any surrounding context.
type FriendlyError interface {
	FriendlyMessage() string
	Error() string
}

// An ExitError carries the exit status that the process should terminate
// with. It's used to mirror the exit code of a failed subprocess.
type ExitError interface {
	ExitStatus() int
	Error() string
}

type contextErrorImpl struct {
	err     error
	context string
}

func (err contextErrorImpl) Context() string {
	return err.context
}

func (err contextErrorImpl) Error() string {
	// If one of our children is a friendly error, print that.
	if friendlyMsg, ok := getFriendlyMessage(err); ok {
		return friendlyMsg
	}

	// Otherwise, print the full error tree.
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextErrorImpl) Cause() error {
	return err.err
}

func (err contextErrorImpl) Unwrap() error {
	return err.err
}

type friendlyErrorImpl struct {
	message string
}

func (err friendlyErrorImpl) Error() string {
	return err.message
}

func (err friendlyErrorImpl) FriendlyMessage() string {
	return err.message
}

type exitErrorImpl struct {
	err    error
	status int
}

func (err exitErrorImpl) Error() string {
	return err.err.Error()
}

func (err exitErrorImpl) ExitStatus() int {
	return err.status
}

func (err exitErrorImpl) Cause() error {
	return err.err
}

func (err exitErrorImpl) Context() string {
	return ""
}

func (err exitErrorImpl) Unwrap() error {
	return err.err
}

// WithContext returns an error that can be unwrapped by `Cause`.
func WithContext(context string, err error) error {
	return contextErrorImpl{err, context}
}

// WithExitStatus returns an error that makes the process exit with the given
// status when it's handled by HandleFatalError.
func WithExitStatus(err error, status int) error {
	return exitErrorImpl{err, status}
}

// Cause returns the cause of the given error if it's defined.
func Cause(err error) (error, bool) { // nolint: golint, staticcheck, stylecheck
	errWithContext, ok := err.(ContextError)
	if !ok {
		return nil, false
	}
	return errWithContext.Cause(), true
}

// RootCause returns the root cause of the given error.
func RootCause(err error) error {
	for {
		cause, ok := Cause(err)
		if !ok {
			return err
		}
		err = cause
	}
}

// New returns a new Go error. It is provided so that callers don't have to
// import both the Go "errors" package and this package.
func New(f string, args ...interface{}) error {
	return fmt.Errorf(f, args...)
}

// NewFriendlyError returns a new user friendly error that can be retrieved by
// GetPrintableMessage.
func NewFriendlyError(f string, args ...interface{}) error {
	return friendlyErrorImpl{fmt.Sprintf(f, args...)}
}

// GetPrintableMessage returns a user friendly error to print to the user.
// If any error in the error chain has a user friendly error message, it prints
// that. Otherwise, it prints the errors' generic message.
func GetPrintableMessage(err error) string {
	if friendlyMsg, ok := getFriendlyMessage(err); ok {
		return friendlyMsg
	}
	return err.Error()
}

// GetExitStatus returns the exit status carried by any error in the chain.
func GetExitStatus(err error) (int, bool) {
	for {
		if exitErr, ok := err.(ExitError); ok {
			return exitErr.ExitStatus(), true
		}

		cause, ok := Cause(err)
		if !ok {
			return 0, false
		}
		err = cause
	}
}

func getFriendlyMessage(err error) (string, bool) {
	friendlyError, ok := err.(FriendlyError)
	if ok {
		return friendlyError.FriendlyMessage(), true
	}

	cause, ok := Cause(err)
	if !ok {
		return "", false
	}
	return getFriendlyMessage(cause)
}

// HandleFatalError prints the error and terminates the process. If the error
// carries an exit status it becomes the process's exit code, so scripts see
// the same code the underlying build tool returned.
func HandleFatalError(err error) {
	fmt.Fprintln(os.Stderr, goterm.Color("ERROR: "+GetPrintableMessage(err), goterm.RED))

	if status, ok := GetExitStatus(err); ok {
		os.Exit(status)
	}
	os.Exit(1)
}
