package email

import (
	"errors"
	"strings"

	"mailflow/internal/features/campaign"
)

// ErrNoRecipients is returned when parsing yields zero usable addresses.
// Nothing is persisted and no delivery is attempted in that case.
var ErrNoRecipients = errors.New("no valid email addresses found, please enter at least one valid email address")

// ParseRecipients turns a raw text blob (one address per line) into pending
// recipient entries. Lines are trimmed; blank lines and lines without an "@"
// are dropped. Input order is preserved and duplicate lines are kept, so an
// address listed twice is sent to twice.
func ParseRecipients(raw string) ([]campaign.Recipient, error) {
	var recipients []campaign.Recipient

	for _, line := range strings.Split(raw, "\n") {
		address := strings.TrimSpace(line)
		if address == "" || !strings.Contains(address, "@") {
			continue
		}
		recipients = append(recipients, campaign.Recipient{
			Email:  address,
			Status: campaign.RecipientPending,
		})
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	return recipients, nil
}
