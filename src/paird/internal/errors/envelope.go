package errors

import (
	stderr "errors"
	"fmt"
)

// EnvelopeDecodeError indicates that an inbound envelope could not be used.
// Decode failures drop the single envelope; they never tear down the channel.
type EnvelopeDecodeError struct {
	Type   string
	Reason string
}

// Error is an implementation of the error interface.
func (n *EnvelopeDecodeError) Error() string {
	if n.Type == "" {
		return fmt.Sprintf("undecodable envelope: %s", n.Reason)
	}
	return fmt.Sprintf("undecodable %q envelope: %s", n.Type, n.Reason)
}

// IsEnvelopeDecode reports whether the error chain contains an envelope
// decode failure.
func IsEnvelopeDecode(e error) bool {
	var de *EnvelopeDecodeError
	return stderr.As(e, &de)
}

// UnknownEnvelopeTypeError indicates an envelope with a type tag outside the
// protocol's closed set. Unknown tags are ignored, never fatal.
type UnknownEnvelopeTypeError struct {
	Type string
}

// Error is an implementation of the error interface.
func (n *UnknownEnvelopeTypeError) Error() string {
	return fmt.Sprintf("unknown envelope type %q", n.Type)
}

// DocumentSizeLimitError indicates that a document exceeded the configured size limit.
type DocumentSizeLimitError struct {
	Size int64
}

// Error is an implementation of the error interface.
func (n *DocumentSizeLimitError) Error() string {
	return fmt.Sprintf("size of %d bytes exceeds permitted limit", n.Size)
}
