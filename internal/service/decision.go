package service

import (
	"fmt"
	"strings"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

const (
	reasonUnavailable = "Requested variation is currently unavailable."
	reasonDefault     = "Supervisor approval required."
	confirmedMessage  = "Your activity has been booked successfully."
	pendingMessage    = "Your request requires manual review by our supervisor. We have sent an escalation and will update you once they respond."
	unknownSupervisor = "unknown@local"
)

// Decision is the outcome of evaluating a booking request against a variation.
type Decision struct {
	Status  model.BookingStatus
	Reasons []string
}

// NeedsSupervisor reports whether the booking must be escalated.
func (d Decision) NeedsSupervisor() bool {
	return d.Status == model.BookingPendingSupervisor
}

// Reason joins every triggered condition into one human-readable sentence.
func (d Decision) Reason() string {
	if !d.NeedsSupervisor() {
		return ""
	}
	if len(d.Reasons) == 0 {
		return reasonDefault
	}
	return strings.Join(d.Reasons, " ")
}

// Decide evaluates every escalation condition without short-circuiting.
// Group size bounds are inclusive.
func Decide(v model.ActivityVariation, groupSize int) Decision {
	var reasons []string

	if !v.IsAvailable {
		reasons = append(reasons, reasonUnavailable)
	}

	if groupSize < v.GroupSizeMin || groupSize > v.GroupSizeMax {
		reasons = append(reasons, fmt.Sprintf(
			"Requested group size %d is outside allowed range %d-%d.",
			groupSize, v.GroupSizeMin, v.GroupSizeMax,
		))
	}

	if len(reasons) > 0 {
		return Decision{Status: model.BookingPendingSupervisor, Reasons: reasons}
	}
	return Decision{Status: model.BookingConfirmed}
}
