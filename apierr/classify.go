package apierr

import (
	"errors"
	"fmt"
)

// Category determines whether the transport may retry an error.
type Category int

const (
	// Recoverable errors may be retried with backoff: network failures,
	// 408, 429 and 5xx responses.
	Recoverable Category = iota

	// Irrecoverable errors fail immediately: every other 4xx response,
	// decode failures and cancelled contexts.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// CategoryForStatus maps an HTTP status code to a retry category.
func CategoryForStatus(statusCode int) Category {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		return Irrecoverable
	}
}

// Classify returns the retry category of err. Errors outside the taxonomy are
// treated as recoverable network failures.
func Classify(err error) Category {
	if err == nil {
		return Irrecoverable
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Category()
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return Irrecoverable
	}

	return Recoverable
}
