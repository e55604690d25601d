package service

import (
	"strings"
	"testing"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

func TestDecide(t *testing.T) {
	available := model.ActivityVariation{ID: "v", GroupSizeMin: 2, GroupSizeMax: 6, IsAvailable: true}
	closed := available
	closed.IsAvailable = false

	tests := []struct {
		name      string
		variation model.ActivityVariation
		groupSize int
		want      model.BookingStatus
		reasons   []string
	}{
		{"inside range", available, 4, model.BookingConfirmed, nil},
		{"lower bound inclusive", available, 2, model.BookingConfirmed, nil},
		{"upper bound inclusive", available, 6, model.BookingConfirmed, nil},
		{"below range", available, 1, model.BookingPendingSupervisor, []string{"Requested group size 1 is outside allowed range 2-6."}},
		{"above range", available, 9, model.BookingPendingSupervisor, []string{"Requested group size 9 is outside allowed range 2-6."}},
		{"unavailable", closed, 3, model.BookingPendingSupervisor, []string{reasonUnavailable}},
		{"unavailable and above range", closed, 9, model.BookingPendingSupervisor, []string{
			reasonUnavailable,
			"Requested group size 9 is outside allowed range 2-6.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.variation, tt.groupSize)
			if d.Status != tt.want {
				t.Fatalf("status = %s, want %s", d.Status, tt.want)
			}
			if len(d.Reasons) != len(tt.reasons) {
				t.Fatalf("reasons = %q, want %q", d.Reasons, tt.reasons)
			}
			for i := range tt.reasons {
				if d.Reasons[i] != tt.reasons[i] {
					t.Errorf("reason[%d] = %q, want %q", i, d.Reasons[i], tt.reasons[i])
				}
			}
		})
	}
}

func TestDecisionReason(t *testing.T) {
	if r := (Decision{Status: model.BookingConfirmed}).Reason(); r != "" {
		t.Errorf("confirmed reason = %q, want empty", r)
	}
	if r := (Decision{Status: model.BookingPendingSupervisor}).Reason(); r != reasonDefault {
		t.Errorf("empty pending reason = %q, want %q", r, reasonDefault)
	}

	d := Decide(model.ActivityVariation{GroupSizeMin: 1, GroupSizeMax: 4}, 7)
	if !strings.Contains(d.Reason(), "outside allowed range 1-4") {
		t.Errorf("reason = %q", d.Reason())
	}
}
