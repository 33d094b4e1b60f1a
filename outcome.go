package badssl

import (
	"fmt"
	"time"
)

// Outcome is the result of one connection attempt.
type Outcome struct {
	raised  bool
	message string
	content string

	// Elapsed is how long the attempt took.
	Elapsed time.Duration
}

// Success returns an [Outcome] for an attempt that completed. content is whatever the connector
// read from the peer and may be empty.
func Success(content string) Outcome {
	return Outcome{content: content}
}

// Failure returns an [Outcome] for an attempt that failed with message.
func Failure(message string) Outcome {
	return Outcome{raised: true, message: message}
}

// Raised reports whether the attempt failed.
func (o Outcome) Raised() bool { return o.raised }

// Message returns the failure message, or an empty string on success.
func (o Outcome) Message() string { return o.message }

// Content returns what was read on success.
func (o Outcome) Content() string { return o.content }

func (o Outcome) String() string {
	if o.raised {
		return fmt.Sprintf("raised %q", o.message)
	}
	return "did not raise"
}
