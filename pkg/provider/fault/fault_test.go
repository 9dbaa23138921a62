package fault_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/MrWong99/murshed/pkg/provider/fault"
)

func TestKindIsValid(t *testing.T) {
	valid := []fault.Kind{
		fault.KindNetwork,
		fault.KindTimeout,
		fault.KindBackendRejected,
		fault.KindEmptyAudio,
		fault.KindUnsupportedDocument,
	}
	for _, k := range valid {
		if !k.IsValid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	if fault.Kind("catastrophic").IsValid() {
		t.Error("unknown kind should not be valid")
	}
}

func TestErrorMessage(t *testing.T) {
	e := fault.New(fault.KindBackendRejected, "index unavailable")
	if !strings.Contains(e.Error(), "index unavailable") {
		t.Errorf("error string should contain the message, got %q", e.Error())
	}
	if !strings.Contains(e.Error(), "backend_rejected") {
		t.Errorf("error string should contain the kind, got %q", e.Error())
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection refused")
	e := fault.Wrap(fault.KindNetwork, "ask failed", cause)

	if !errors.Is(e, cause) {
		t.Error("wrapped error should match the cause via errors.Is")
	}
	wrapped := fmt.Errorf("controller: %w", e)
	if fault.KindOf(wrapped) != fault.KindNetwork {
		t.Errorf("KindOf through a wrap: got %q, want %q", fault.KindOf(wrapped), fault.KindNetwork)
	}
}

func TestKindOfNonFault(t *testing.T) {
	if got := fault.KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
	if got := fault.KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}

func TestIs(t *testing.T) {
	e := fault.New(fault.KindTimeout, "ask timed out")
	if !fault.Is(e, fault.KindTimeout) {
		t.Error("Is should match the timeout kind")
	}
	if fault.Is(e, fault.KindNetwork) {
		t.Error("Is should not match a different kind")
	}
}

func TestFromTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want fault.Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, fault.KindTimeout},
		{"wrapped deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), fault.KindTimeout},
		{"generic transport", errors.New("dial tcp: connection refused"), fault.KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fault.FromTransport("ask", tt.err)
			if got.Kind != tt.want {
				t.Errorf("FromTransport kind = %q, want %q", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}
