package api

import "fmt"

// ErrorKind classifies a fetch failure so the UI can show the right
// localized message.
type ErrorKind int

const (
	// KindNetwork is an unreachable host or transport failure.
	KindNetwork ErrorKind = iota
	// KindServer is a 5xx response.
	KindServer
	// KindClient is a 4xx response.
	KindClient
	// KindProtocol is a non-JSON or malformed payload.
	KindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindProtocol:
		return "protocol"
	}
	return "unknown"
}

// Error is a classified catalog fetch failure.
type Error struct {
	Kind   ErrorKind
	Status int // HTTP status when applicable, else 0
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err, defaulting to KindNetwork
// for errors that never reached the HTTP layer.
func KindOf(err error) ErrorKind {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Kind
	}
	return KindNetwork
}
