package chat

import (
	"fmt"
	"testing"
)

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotIdentified, "not_identified"},
		{ErrNotInRoom, "not_in_room"},
		{ErrInvalidMessage, "invalid_message"},
		{ErrUnknownRoom, "unknown_room"},
		{ErrUnknownUser, "unknown_user"},
		{ErrPersistence, "persistence_failure"},
		{fmt.Errorf("%w: store unavailable", ErrPersistence), "persistence_failure"},
		{fmt.Errorf("something else"), "protocol_violation"},
	}
	for _, tt := range tests {
		if got := RejectReason(tt.err); got != tt.want {
			t.Errorf("RejectReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(ErrDuplicateConnection) || !Fatal(ErrUnknownConnection) {
		t.Error("registry errors must be fatal")
	}
	if Fatal(ErrInvalidMessage) || Fatal(ErrUnknownRoom) || Fatal(nil) {
		t.Error("protocol errors must not be fatal")
	}
}
