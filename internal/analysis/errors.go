package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Each typed error below matches its sentinel.
var (
	ErrTooShort          = errors.New("study text too short")
	ErrUpstream          = errors.New("analysis service failed")
	ErrMalformedResponse = errors.New("malformed analysis response")
	ErrBusy              = errors.New("analysis already in progress")
)

// TooShortError is returned when the trimmed input is below the minimum length.
type TooShortError struct {
	Length int // trimmed length, in characters
	Min    int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("text too short: %d characters, at least %d required", e.Length, e.Min)
}

func (e *TooShortError) Is(target error) bool { return target == ErrTooShort }

// UpstreamError wraps a transport failure, an upstream rejection or a
// cancelled context. Message carries the upstream's own wording.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("analysis service error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// MalformedResponseError reports that the model's output could not be
// turned into a study package, either because it was not JSON or because
// required structure was missing.
type MalformedResponseError struct {
	Cause string
	Raw   string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analysis response: %s", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// BusyError is returned when a submission arrives for a key that already
// has an analysis in flight.
type BusyError struct {
	Key string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("analysis already in progress for %q", e.Key)
}

func (e *BusyError) Is(target error) bool { return target == ErrBusy }
