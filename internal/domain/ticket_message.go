package domain

import "time"

// SenderType indicates who authored a message.
type SenderType string

const (
	SenderTypeCustomer SenderType = "customer"
	SenderTypeAgent    SenderType = "agent"
	SenderTypeSystem   SenderType = "system"
)

// ValidSenderType reports whether the value is a known sender type.
func ValidSenderType(s SenderType) bool {
	return s == SenderTypeCustomer || s == SenderTypeAgent || s == SenderTypeSystem
}

// TicketMessage captures one entry in a ticket's conversation thread.
// Messages are append-only; internal messages are visible to agents only.
type TicketMessage struct {
	ID         string
	TicketID   string
	SenderID   string
	SenderType SenderType
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}
