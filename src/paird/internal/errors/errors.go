package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NotConnectedError reports that a send was attempted while the channel
	// is not open. Sends in that state are dropped, never queued.
	NotConnectedError = New("channel is not connected")
	// SessionStoppedError reports that an operation arrived after teardown.
	SessionStoppedError = New("session has been stopped")
)

// IsDroppedSend reports whether the error marks a send that was discarded
// because no open channel was available to carry it.
func IsDroppedSend(e error) bool {
	return stderr.Is(e, NotConnectedError) || stderr.Is(e, SessionStoppedError)
}
