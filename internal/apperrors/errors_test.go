package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestWrapTransportClassifies(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantNetwork bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"net.Error timeout", fakeTimeoutError{}, true},
		{"wrapped net.Error", fmt.Errorf("call failed: %w", fakeTimeoutError{}), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
	}

	for _, tc := range cases {
		got := WrapTransport(tc.err)
		if tc.wantNetwork != IsNetwork(got) {
			t.Errorf("%s: IsNetwork = %v, want %v", tc.name, IsNetwork(got), tc.wantNetwork)
		}
		if tc.err == nil && got != nil {
			t.Errorf("%s: nil must stay nil", tc.name)
		}
	}
}

func TestWrapTransportKeepsAPIError(t *testing.T) {
	apiErr := &APIError{StatusCode: 502, Status: "502 Bad Gateway"}
	got := WrapTransport(apiErr)
	if !IsAPI(got) {
		t.Fatal("APIError must survive WrapTransport")
	}
	if IsNetwork(got) {
		t.Fatal("APIError must not be reclassified as network")
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	err := WrapTransport(fakeTimeoutError{})
	if !strings.Contains(err.Error(), "check your connection") {
		t.Errorf("user-facing message missing, got %q", err.Error())
	}
	// The cause must stay reachable for logging.
	var netErr net.Error
	if !errors.As(err, &netErr) {
		t.Error("underlying net.Error must be unwrappable")
	}
}

func TestTaxonomyDiscrimination(t *testing.T) {
	verr := Validation("password", "too weak")
	if !IsValidation(verr) || IsAuth(verr) || IsState(verr) {
		t.Error("validation error misclassified")
	}
	if verr.Error() != "password: too weak" {
		t.Errorf("validation message = %q", verr.Error())
	}

	aerr := Auth("invalid email or password")
	if !IsAuth(aerr) || IsValidation(aerr) {
		t.Error("auth error misclassified")
	}

	serr := State("no active session")
	if !IsState(serr) || IsAuth(serr) {
		t.Error("state error misclassified")
	}
}
