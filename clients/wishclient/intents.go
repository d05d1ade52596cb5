package wishclient

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// ReserveResult is the server's acknowledgement of a reserve intent.
type ReserveResult struct {
	Reserved bool `json:"reserved"`
}

// ContributeResult is the server's acknowledgement of a contribution. The
// totals are the server's, never computed locally.
type ContributeResult struct {
	OK                  bool  `json:"ok"`
	ContributionID      int64 `json:"contribution_id"`
	CollectedCents      int64 `json:"collected_cents"`
	MyContributionCents int64 `json:"my_contribution_cents"`
}

type reserveRequest struct {
	Honeypot string `json:"honeypot"`
}

type contributeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Message     string `json:"message,omitempty"`
	Honeypot    string `json:"honeypot"`
}

// Reserve asks the server to reserve an item for this viewer. The server
// returns KindConflict when a different viewer holds the item; repeated
// reserves by the current holder succeed as no-ops.
func (c *Client) Reserve(ctx context.Context, itemID int64) (*ReserveResult, error) {
	var out ReserveResult
	if err := c.post(ctx, fmt.Sprintf(ReserveEndpoint, itemID), reserveRequest{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unreserve releases this viewer's reservation. KindForbidden when the
// caller is not the current holder.
func (c *Client) Unreserve(ctx context.Context, itemID int64) error {
	return c.post(ctx, fmt.Sprintf(UnreserveEndpoint, itemID), reserveRequest{}, nil)
}

// Contribute adds amountCents toward an item, with an optional message.
// Amount and message are validated before any network call; the server
// serializes the accumulation and returns its totals.
func (c *Client) Contribute(ctx context.Context, itemID int64, amountCents int64, message string) (*ContributeResult, error) {
	if amountCents <= 0 {
		return nil, &APIError{Kind: KindValidation, Detail: "amount_cents must be a positive integer"}
	}
	if utf8.RuneCountInString(message) > MaxMessageChars {
		return nil, &APIError{
			Kind:   KindValidation,
			Detail: fmt.Sprintf("message exceeds %d characters", MaxMessageChars),
		}
	}

	var out ContributeResult
	req := contributeRequest{AmountCents: amountCents, Message: message}
	if err := c.post(ctx, fmt.Sprintf(ContributeEndpoint, itemID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
