package domain

// Stats aggregates dashboard counters derived from current ticket and
// agent state. Produced by a read-only scan; never mutated in place.
type Stats struct {
	TotalTickets       int                    `json:"totalTickets"`
	OpenTickets        int                    `json:"openTickets"`
	InProgressTickets  int                    `json:"inProgressTickets"`
	EscalatedTickets   int                    `json:"escalatedTickets"`
	ResolvedLast24h    int                    `json:"resolvedLast24h"`
	AvgResponseMinutes float64                `json:"avgResponseMinutes"`
	CategoryBreakdown  map[TicketCategory]int `json:"categoryBreakdown"`
	PriorityBreakdown  map[TicketPriority]int `json:"priorityBreakdown"`
	OnlineAgents       int                    `json:"onlineAgents"`
	TotalAgents        int                    `json:"totalAgents"`
	SLABreaches        int                    `json:"slaBreaches"`
}
