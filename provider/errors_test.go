package provider_test

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"

	"fitchat/provider"
)

func TestCallError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}
	badKey := errors.New("401 Unauthorized")
	refusedURL := &url.Error{
		Op:  "Post",
		URL: "http://localhost:11434/v1/chat/completions",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}},
	}
	timedOut := &url.Error{
		Op:  "Post",
		URL: "http://localhost:11434/v1/chat/completions",
		Err: context.DeadlineExceeded,
	}
	reset := &url.Error{
		Op:  "Post",
		URL: "http://localhost:11434/v1/chat/completions",
		Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")},
	}

	tests := []struct {
		name           string
		id             provider.ProviderID
		err            error
		wantConnection bool
		wantContains   []string
	}{
		{
			name:           "ollama unreachable",
			id:             provider.Ollama,
			err:            refused,
			wantConnection: true,
			wantContains:   []string{"Error connecting to Ollama (Local)", "ollama serve"},
		},
		{
			name:           "ollama refused through the HTTP client",
			id:             provider.Ollama,
			err:            refusedURL,
			wantConnection: true,
			wantContains:   []string{"ollama serve"},
		},
		{
			name:         "ollama timeout is not unreachable",
			id:           provider.Ollama,
			err:          timedOut,
			wantContains: []string{"Error connecting to Ollama (Local)", "deadline exceeded"},
		},
		{
			name:         "ollama reset after connecting is not unreachable",
			id:           provider.Ollama,
			err:          reset,
			wantContains: []string{"connection reset by peer"},
		},
		{
			name:         "ollama server error",
			id:           provider.Ollama,
			err:          errors.New("model not found"),
			wantContains: []string{"Error connecting to Ollama (Local): model not found", "ollama serve"},
		},
		{
			name:         "remote provider",
			id:           provider.OpenAI,
			err:          badKey,
			wantContains: []string{"OpenAI (ChatGPT) request failed: 401 Unauthorized"},
		},
		{
			name:         "remote network failure is not a local connection error",
			id:           provider.XAI,
			err:          refused,
			wantContains: []string{"xAI (Grok) request failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := provider.Describe(tt.id)
			if err != nil {
				t.Fatal(err)
			}

			ce := provider.NewCallError(d, tt.err)
			if !errors.Is(ce, provider.ErrProvider) {
				t.Error("CallError does not match ErrProvider")
			}
			if got := errors.Is(ce, provider.ErrConnection); got != tt.wantConnection {
				t.Errorf("errors.Is(ErrConnection) = %v, want %v", got, tt.wantConnection)
			}
			if !errors.Is(ce, tt.err) {
				t.Error("CallError does not wrap the underlying error")
			}
			for _, s := range tt.wantContains {
				if !strings.Contains(ce.Error(), s) {
					t.Errorf("Error() = %q, missing %q", ce.Error(), s)
				}
			}
		})
	}
}
