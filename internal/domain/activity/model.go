package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeContractCreated    ActivityType = "contract_created"
	TypeContractRenewed    ActivityType = "contract_renewed"
	TypeRenewalFailed      ActivityType = "renewal_failed"
	TypeTicketCreated      ActivityType = "ticket_created"
	TypeTicketTransitioned ActivityType = "ticket_transitioned"
	TypeTicketCompleted    ActivityType = "ticket_completed"
	TypeTicketDeleted      ActivityType = "ticket_deleted"
)

// ActivityEntry represents an event in the audit log
type ActivityEntry struct {
	ID           int64        `db:"id" json:"id"`
	ClientID     *string      `db:"client_id" json:"client_id,omitempty"`
	ContractID   *string      `db:"contract_id" json:"contract_id,omitempty"`
	TicketID     *string      `db:"ticket_id" json:"ticket_id,omitempty"`
	ActorID      string       `db:"actor_id" json:"actor_id"`
	ActivityType ActivityType `db:"activity_type" json:"type"`
	Summary      string       `db:"summary" json:"summary"`
	Details      string       `db:"details" json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ClientID     string
	ContractID   *string
	TicketID     *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
