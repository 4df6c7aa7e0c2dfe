package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(502, "http://127.0.0.1:8000/chat", "chat request failed")

	expected := "API error [502] at http://127.0.0.1:8000/chat: chat request failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/chat", "boom")
	if noStatus.Error() != "API error at /chat: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("chat request", "http://x/chat", cause)

	if !errors.Is(err, cause) {
		t.Error("expected NetworkError to unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected IsNetworkError to see through wrapping")
	}
	if IsNetworkError(cause) {
		t.Error("plain error must not be a network error")
	}

	want := "network error during chat request at http://x/chat: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %s, want %s", err.Error(), want)
	}
}

func TestParseError_Is(t *testing.T) {
	err := NewParseError("body is not valid JSON", "")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("ctx: %w", err)) {
		t.Error("expected IsParseError through wrapping")
	}
	if err.Error() != "parse error: body is not valid JSON" {
		t.Errorf("Error() = %s", err.Error())
	}

	withPath := NewParseError("not an array", "table_data")
	if withPath.Error() != "parse error at table_data: not an array" {
		t.Errorf("Error() = %s", withPath.Error())
	}
}

func TestIsTimeoutError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", NewNetworkError("chat", context.DeadlineExceeded), true},
		{"message", errors.New("Client.Timeout exceeded while awaiting headers"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeoutError(tt.err); got != tt.want {
				t.Errorf("IsTimeoutError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetters(t *testing.T) {
	apiErr := NewAPIErrorWithBody(500, "/chat", "failed", `{"detail":"boom"}`)
	wrapped := fmt.Errorf("chat: %w", apiErr)

	if GetHTTPStatus(wrapped) != 500 {
		t.Errorf("GetHTTPStatus = %d, want 500", GetHTTPStatus(wrapped))
	}
	if GetEndpoint(wrapped) != "/chat" {
		t.Errorf("GetEndpoint = %s", GetEndpoint(wrapped))
	}
	if GetResponseBody(wrapped) != `{"detail":"boom"}` {
		t.Errorf("GetResponseBody = %s", GetResponseBody(wrapped))
	}

	netErr := NewNetworkErrorWithEndpoint("health", "/", errors.New("refused"))
	if GetEndpoint(netErr) != "/" {
		t.Errorf("GetEndpoint(network) = %s", GetEndpoint(netErr))
	}
	if GetHTTPStatus(netErr) != 0 {
		t.Error("network errors carry no HTTP status")
	}
	if GetResponseBody(errors.New("x")) != "" {
		t.Error("plain errors carry no body")
	}
}
