package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

var (
	conversationIDPattern = regexp.MustCompile(`conversation_id=([A-Za-z0-9_\-]+)`)
	escalationIDPattern   = regexp.MustCompile(`escalation_id=([A-Za-z0-9\-]+)`)
)

// EscalationSubject builds the notification subject. Replies keep the
// subject, which is how the mailbox poller correlates them.
func EscalationSubject(tag string, booking *model.Booking, esc *model.Escalation) string {
	var b strings.Builder
	if tag != "" {
		b.WriteString(tag)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "Escalation for booking %s", booking.ID)
	if booking.ConversationID != "" {
		fmt.Fprintf(&b, " conversation_id=%s", booking.ConversationID)
	}
	fmt.Fprintf(&b, " escalation_id=%s", esc.ID)
	return b.String()
}

// Correlation is what a reply subject says about its origin.
type Correlation struct {
	ConversationID string
	EscalationID   string
}

// ParseCorrelation extracts conversation and escalation ids from a subject.
// Missing ids are returned empty.
func ParseCorrelation(subject string) Correlation {
	var c Correlation
	if m := conversationIDPattern.FindStringSubmatch(subject); m != nil {
		c.ConversationID = m[1]
	}
	if m := escalationIDPattern.FindStringSubmatch(subject); m != nil {
		c.EscalationID = m[1]
	}
	return c
}

func escalationBody(activity *model.Activity, variation *model.ActivityVariation, booking *model.Booking, reason string) string {
	var b strings.Builder
	b.WriteString("A booking requires your attention.\n\n")
	fmt.Fprintf(&b, "Booking ID: %s\n", booking.ID)
	fmt.Fprintf(&b, "Activity: %s\n", activity.Name)
	fmt.Fprintf(&b, "Variation: %s (%s)\n", variation.Name, variation.TimeSlot)
	fmt.Fprintf(&b, "Requested date: %s\n", booking.Date)
	fmt.Fprintf(&b, "Group size: %d (allowed %d-%d)\n", booking.GroupSize, variation.GroupSizeMin, variation.GroupSizeMax)
	fmt.Fprintf(&b, "Customer: %s <%s>\n\n", booking.CustomerName, booking.CustomerEmail)
	fmt.Fprintf(&b, "Reason for escalation: %s\n\n", reason)
	b.WriteString("Please reply with APPROVE or REJECT and any notes. ")
	b.WriteString("Your response will be surfaced to the user in the chat.")
	return b.String()
}
