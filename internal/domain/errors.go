package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a network-related error that may be retriable.
// Used by the advisor client; matching and simulation never produce these.
type NetworkError struct {
	Op        string // Operation that failed (e.g., "dial", "read", "write")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// ValidationError represents a rejected input (never retriable). The prior
// valid value stays in effect when one of these is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return "validation error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	// ErrMatchNotLive is returned when an order is submitted while the match
	// is not in progress.
	ErrMatchNotLive = errors.New("match is not in progress")

	// ErrUnknownMarket is returned for a market outside the fixed set.
	ErrUnknownMarket = errors.New("unknown market")

	// ErrPriceOutOfRange is returned when a limit price falls outside the
	// market's configured price band.
	ErrPriceOutOfRange = errors.New("price out of range")

	// ErrInvalidVolume is returned for a non-positive order volume.
	ErrInvalidVolume = errors.New("volume must be positive")

	// ErrMatchAlreadyStarted is returned when starting a match that is not
	// in the not_started state.
	ErrMatchAlreadyStarted = errors.New("match already started")
)
