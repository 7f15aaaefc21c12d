package donation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CodePrefix tags every correlation code this system issues.
const CodePrefix = "TS"

// Code correlates a donation intent with its gateway transaction. It is
// carried in the payment description and parsed back out of webhook
// callbacks, so the format is part of the gateway contract.
type Code struct {
	CampaignID int64
	IssuedAt   time.Time
}

func NewCode(campaignID int64, issuedAt time.Time) Code {
	return Code{CampaignID: campaignID, IssuedAt: issuedAt}
}

func (c Code) String() string {
	return fmt.Sprintf("%s-%d-%d", CodePrefix, c.CampaignID, c.IssuedAt.Unix())
}

// ParseCode rejects anything that is not exactly "TS-{campaign_id}-{unix}".
// Malformed webhook descriptions must fail closed, never panic.
func ParseCode(s string) (Code, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Code{}, fmt.Errorf("correlation code %q: expected 3 segments, got %d", s, len(parts))
	}
	if parts[0] != CodePrefix {
		return Code{}, fmt.Errorf("correlation code %q: unknown prefix %q", s, parts[0])
	}

	campaignID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || campaignID <= 0 {
		return Code{}, fmt.Errorf("correlation code %q: invalid campaign id segment", s)
	}

	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || unix <= 0 {
		return Code{}, fmt.Errorf("correlation code %q: invalid timestamp segment", s)
	}

	return Code{CampaignID: campaignID, IssuedAt: time.Unix(unix, 0)}, nil
}
