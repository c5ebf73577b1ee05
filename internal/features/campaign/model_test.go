package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTerminalStatus(t *testing.T) {
	cases := []struct {
		sent, failed int
		want         Status
	}{
		{sent: 5, failed: 0, want: StatusCompleted},
		{sent: 0, failed: 5, want: StatusFailed},
		{sent: 3, failed: 2, want: StatusPartial},
		{sent: 0, failed: 0, want: StatusCompleted},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TerminalStatus(tc.sent, tc.failed), "sent=%d failed=%d", tc.sent, tc.failed)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusPartial.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestNewFixesTotalRecipients(t *testing.T) {
	recipients := []Recipient{
		{Email: "a@x.com", Status: RecipientPending},
		{Email: "b@x.com", Status: RecipientPending},
	}

	c := New(primitive.NewObjectID(), "Launch", "Hello", "Body", StatusInProgress, recipients)

	assert.Equal(t, 2, c.TotalRecipients)
	assert.False(t, c.ID.IsZero())
	assert.Equal(t, StatusInProgress, c.Status)
}
