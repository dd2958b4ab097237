package observability

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic recovers from a panic in a defer and logs it with its
// stack trace. The panic is not re-raised. Used by background jobs so a
// bad run cannot take the process down with it.
func RecoverPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("panic recovered")
	}
}

// MustRecover converts a recovered panic value into an error, for
// callers that propagate failures instead of logging them.
//
//	defer func() { err = observability.MustRecover(recover()) }()
func MustRecover(r interface{}) error {
	if r != nil {
		return fmt.Errorf("panic: %v", r)
	}
	return nil
}
