package provider

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

var (
	// ErrUnknownProvider is returned for provider ids missing from the registry.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingConfiguration is returned when a required option is absent.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrMissingDependency is returned when no transport is available for a provider family.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrProvider matches every failed chat call.
	ErrProvider = errors.New("provider error")
	// ErrConnection matches chat calls that could not reach a local server.
	ErrConnection = errors.New("connection error")
)

const ollamaHint = "Make sure Ollama is installed and the local server is running.\n" +
	"Start it with: ollama serve, then retry."

// CallError describes a failed chat call.
//
// Message is meant for end users; Err keeps the underlying transport or
// parsing failure for logging. CallError matches ErrProvider, and also
// ErrConnection when a local server could not be reached.
type CallError struct {
	Provider ProviderID
	Message  string
	Err      error
	unreach  bool
}

// NewCallError wraps a transport or parsing failure for the given provider.
func NewCallError(d Descriptor, err error) *CallError {
	ce := &CallError{
		Provider: d.ID,
		Err:      err,
	}

	if d.IsLocal {
		ce.unreach = isConnectionFailure(err)
		ce.Message = fmt.Sprintf("Error connecting to %s: %v\n\n%s", d.DisplayName, err, ollamaHint)
		return ce
	}

	ce.Message = fmt.Sprintf("%s request failed: %v", d.DisplayName, err)
	return ce
}

func (e *CallError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel kinds alongside the underlying cause.
func (e *CallError) Unwrap() []error {
	errs := []error{ErrProvider}
	if e.unreach {
		errs = append(errs, ErrConnection)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// isConnectionFailure reports whether err means the server could not be
// reached at all. Timeouts and failures after the connection was made do not
// count.
func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(errString(err)), "connection refused")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
