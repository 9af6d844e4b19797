package analyzer

import (
	"context"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Heuristic is a keyword-based offline classifier used when no analyzer
// API key is configured. It keeps the routing pipeline functional in
// development and degraded environments.
type Heuristic struct{}

// NewHeuristic builds the offline classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var categoryKeywords = []struct {
	category domain.TicketCategory
	words    []string
}{
	{domain.CategoryBilling, []string{"invoice", "payment", "charge", "refund", "billing", "subscription"}},
	{domain.CategoryAccount, []string{"login", "log in", "password", "locked", "account", "sign in", "2fa"}},
	{domain.CategoryBugReport, []string{"bug", "crash", "broken", "exception", "stack trace"}},
	{domain.CategoryFeatureRequest, []string{"feature", "request", "suggestion", "would be nice", "improvement"}},
	{domain.CategoryTechnical, []string{"error", "not working", "install", "setup", "configuration", "api", "timeout"}},
}

var urgentWords = []string{"urgent", "asap", "immediately", "critical", "emergency", "outage", "down"}
var highWords = []string{"important", "blocked", "cannot", "can't", "failing", "production"}
var negativeWords = []string{"angry", "frustrated", "unacceptable", "terrible", "awful", "disappointed", "worst"}

// Analyze classifies the ticket by keyword matching.
func (h *Heuristic) Analyze(ctx context.Context, subject, description string) (*Analysis, error) {
	text := strings.ToLower(subject + " " + description)

	category := domain.CategoryGeneral
	tags := []string{}
	for _, entry := range categoryKeywords {
		if containsAny(text, entry.words) {
			category = entry.category
			tags = append(tags, string(entry.category))
			break
		}
	}

	priority := domain.TicketPriorityMedium
	if containsAny(text, urgentWords) {
		priority = domain.TicketPriorityUrgent
	} else if containsAny(text, highWords) {
		priority = domain.TicketPriorityHigh
	}

	sentiment := "neutral"
	if containsAny(text, negativeWords) {
		sentiment = "negative"
	}

	return &Analysis{
		Category:          category,
		Priority:          priority,
		Summary:           summarize(subject, description),
		SuggestedResponse: suggestedReply(category),
		Tags:              tags,
		Sentiment:         sentiment,
		ShouldEscalate:    priority == domain.TicketPriorityUrgent && sentiment == "negative",
	}, nil
}

// GenerateResponse returns a templated reply for the ticket's category.
func (h *Heuristic) GenerateResponse(ctx context.Context, ticket *domain.Ticket) (string, error) {
	return suggestedReply(ticket.Category), nil
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func summarize(subject, description string) string {
	summary := strings.TrimSpace(subject)
	if summary == "" {
		summary = strings.TrimSpace(description)
	}
	if len(summary) > 140 {
		summary = summary[:137] + "..."
	}
	return summary
}

func suggestedReply(category domain.TicketCategory) string {
	switch category {
	case domain.CategoryBilling:
		return "Thank you for reaching out about your billing concern. We are reviewing " +
			"your account and will follow up with the details shortly."
	case domain.CategoryAccount:
		return "Thank you for reporting this account issue. For your security we will " +
			"verify your identity and help you regain access as quickly as possible."
	case domain.CategoryBugReport:
		return "Thank you for the report. We have forwarded the details to our engineering " +
			"team and will update you as soon as we know more."
	case domain.CategoryFeatureRequest:
		return "Thanks for the suggestion! We have logged it for our product team to review."
	case domain.CategoryTechnical:
		return "Thank you for the details. Our technical team is looking into the problem " +
			"and will get back to you with next steps."
	default:
		return "Thank you for contacting support. Your request has been received " +
			"and a member of our team will respond shortly."
	}
}
