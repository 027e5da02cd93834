package types

import "time"

// AccountEvent is the payload published to the event bus when an account
// is created or its profile is saved.
type AccountEvent struct {
	AccountID  string    `json:"accountId"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}
