package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendRequestStatus(t *testing.T) {
	tests := []struct {
		status   FriendRequestStatus
		label    string
		terminal bool
	}{
		{FriendRequestPending, "Pending", false},
		{FriendRequestAccepted, "Accepted", true},
		{FriendRequestRejected, "Rejected", true},
		{FriendRequestStatus("other"), "other", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.status.Label())
		assert.Equal(t, tt.terminal, tt.status.IsTerminal())
	}
}
