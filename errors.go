package locator

import (
	"errors"
	"fmt"
)

// Container errors
var (
	// Lookup errors
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceExpired  = errors.New("service reference expired")

	// Configuration errors
	ErrConfigNil                 = errors.New("config is nil")
	ErrConfigNotPointer          = errors.New("config must be a pointer")
	ErrConfigNotStruct           = errors.New("config must be a struct")
	ErrUnknownExpiredPolicy      = errors.New("unknown expired policy")
	ErrNegativeSweepInterval     = errors.New("sweep interval must not be negative")
	ErrUnsupportedTypeForDefault = errors.New("unsupported type for default value")
	ErrDefaultValueParseError    = errors.New("failed to parse default value")
	ErrUnsupportedFormatType     = errors.New("unsupported format type")

	// Observer errors
	ErrObserverNil   = errors.New("observer is nil")
	ErrObserverNoID  = errors.New("observer has empty id")
	ErrInvalidEvent  = errors.New("invalid cloud event")
	ErrObserverPanic = errors.New("observer panicked")
)

// ServiceError reports a failed lookup for a named key. It unwraps to
// ErrServiceNotFound or ErrServiceExpired.
type ServiceError struct {
	Key string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Key)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func notFound(key string) error {
	return &ServiceError{Key: key, Err: ErrServiceNotFound}
}

func expired(key string) error {
	return &ServiceError{Key: key, Err: ErrServiceExpired}
}
