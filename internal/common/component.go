package common

import (
	"fmt"

	"i2cdecode/internal/dcd"
)

// TraceErrorLog receives the errors and messages of decode components.
type TraceErrorLog interface {
	LogError(filterLevel dcd.ErrSeverity, msg string)
	LogMessage(filterLevel dcd.ErrSeverity, msg string)
}

// AttachPt is a component output holding at most one consumer of type T.
// The zero value is empty and enabled. Disabling keeps the consumer attached
// but hides it from First.
type AttachPt[T any] struct {
	comp     T
	attached bool
	disabled bool
}

// Attach connects comp. It fails if a consumer is already attached.
func (a *AttachPt[T]) Attach(comp T) dcd.Err {
	if a.attached {
		return dcd.ErrAttachTooMany
	}
	a.comp = comp
	a.attached = true
	return dcd.OK
}

// ReplaceFirst connects comp in place of any attached consumer.
func (a *AttachPt[T]) ReplaceFirst(comp T) dcd.Err {
	a.comp = comp
	a.attached = true
	return dcd.OK
}

// First returns the consumer, or the zero T while disabled.
func (a *AttachPt[T]) First() T {
	if a.disabled {
		var none T
		return none
	}
	return a.comp
}

// SetEnabled switches delivery to the attached consumer on or off.
func (a *AttachPt[T]) SetEnabled(enable bool) {
	a.disabled = !enable
}

func (a *AttachPt[T]) HasAttached() bool {
	return a.attached
}

func (a *AttachPt[T]) HasAttachedAndEnabled() bool {
	return a.attached && !a.disabled
}

// TraceComponent carries what every decode component has: a name used as the
// annotation source, op-mode flags and an error log with its verbosity.
type TraceComponent struct {
	name        string
	opFlags     uint32
	opSupported uint32
	errLog      AttachPt[TraceErrorLog]
	verbosity   dcd.ErrSeverity
}

// InitTraceComponent names the component and logs errors only.
func (tc *TraceComponent) InitTraceComponent(name string) {
	tc.name = name
	tc.verbosity = dcd.ErrSevError
}

func (tc *TraceComponent) ComponentName() string {
	return tc.name
}

func (tc *TraceComponent) SetComponentName(name string) {
	tc.name = name
}

func (tc *TraceComponent) ErrorLogAttachPt() *AttachPt[TraceErrorLog] {
	return &tc.errLog
}

// SetComponentOpMode sets the op-mode flags. Flags outside the supported set
// are refused.
func (tc *TraceComponent) SetComponentOpMode(opFlags uint32) dcd.Err {
	if opFlags&^tc.opSupported != 0 {
		return dcd.ErrInvalidParamVal
	}
	tc.opFlags = opFlags
	return dcd.OK
}

func (tc *TraceComponent) ComponentOpMode() uint32 {
	return tc.opFlags
}

func (tc *TraceComponent) SetSupportedOpModes(flags uint32) {
	tc.opSupported = flags
}

// SetErrorLogLevel sets the most verbose severity passed to the error log.
func (tc *TraceComponent) SetErrorLogLevel(level dcd.ErrSeverity) {
	tc.verbosity = level
}

func (tc *TraceComponent) logging(level dcd.ErrSeverity) bool {
	return level <= tc.verbosity && tc.errLog.HasAttachedAndEnabled()
}

// LogError logs err prefixed with the component name.
func (tc *TraceComponent) LogError(err *Error) {
	if tc.logging(err.Sev) {
		tc.errLog.First().LogError(err.Sev, tc.name+": "+err.Error())
	}
}

func (tc *TraceComponent) LogMessage(level dcd.ErrSeverity, msg string) {
	if tc.logging(level) {
		tc.errLog.First().LogMessage(level, msg)
	}
}

// LogMessagef is LogMessage with formatting, skipped for filtered levels.
func (tc *TraceComponent) LogMessagef(level dcd.ErrSeverity, format string, args ...any) {
	if tc.logging(level) {
		tc.errLog.First().LogMessage(level, fmt.Sprintf(format, args...))
	}
}
