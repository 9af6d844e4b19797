// Package analyzer is the boundary to the external ticket analysis
// capability. The routing core only depends on the Analyzer interface;
// callers must treat every implementation as fallible and degrade to
// Fallback rather than surfacing analysis errors.
package analyzer

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Analysis is the classification returned for a ticket's text.
type Analysis struct {
	Category          domain.TicketCategory `json:"category"`
	Priority          domain.TicketPriority `json:"priority"`
	Summary           string                `json:"summary"`
	SuggestedResponse string                `json:"suggested_response"`
	Tags              []string              `json:"tags"`
	Sentiment         string                `json:"sentiment"`
	ShouldEscalate    bool                  `json:"should_escalate"`
}

// Analyzer classifies ticket text and drafts replies.
type Analyzer interface {
	Analyze(ctx context.Context, subject, description string) (*Analysis, error)
	GenerateResponse(ctx context.Context, ticket *domain.Ticket) (string, error)
}

const fallbackResponse = "Thank you for contacting support. We have received your " +
	"request and a member of our team will get back to you as soon as possible."

// Fallback returns the default analysis used when the external analyzer
// is unreachable or returns a malformed response. Category and priority
// stay as submitted.
func Fallback(category domain.TicketCategory, priority domain.TicketPriority) *Analysis {
	return &Analysis{
		Category:          category,
		Priority:          priority,
		Summary:           "Unable to analyze ticket automatically",
		SuggestedResponse: fallbackResponse,
		Tags:              []string{},
		Sentiment:         "neutral",
		ShouldEscalate:    false,
	}
}

// FallbackResponse is the templated reply used when response generation
// fails.
func FallbackResponse() string {
	return fallbackResponse
}
