package helpers

import (
	"fmt"
	"sync"

	"gamefi-market/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type GameFiError struct {
	Message string
	Cause   error
}

func (e *GameFiError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GameFiError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ConfigurationError struct{ GameFiError }
type StorageError struct{ GameFiError }
type SubscriberError struct{ GameFiError }

// NewStorageError wraps a store failure with the operation that produced it
func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{GameFiError{Message: operation + " failed", Cause: cause}}
}

// NewConfigurationError wraps a config failure
func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{GameFiError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount int
	mu         sync.Mutex
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger("", "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

// ErrorCount returns how many errors went through the handler
func (e *ErrorHandler) ErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	e.errorCount = 0
	e.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Handle logs err under context and counts it. nil is ignored.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()
	e.Logger.Error("Error in %s: %v", context, err)
}

// -----------------------------------------------------------------------------

// SafeCall runs fn, turning both a returned error and a panic into a logged
// SubscriberError. It never panics itself.
func (e *ErrorHandler) SafeCall(context string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SubscriberError{GameFiError{
				Message: fmt.Sprintf("%s panicked", context),
				Cause:   fmt.Errorf("%v", r),
			}}
			e.Handle(err, context)
		}
	}()

	if callErr := fn(); callErr != nil {
		err = &SubscriberError{GameFiError{Message: fmt.Sprintf("%s failed", context), Cause: callErr}}
		e.Handle(err, context)
	}
	return err
}
