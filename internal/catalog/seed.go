package catalog

import "github.com/capitalize-ai/travel-assistant/internal/model"

const defaultCurrency = "AED"

func variation(id, name, slot string, minSize, maxSize int, price float64) model.ActivityVariation {
	return model.ActivityVariation{
		ID:             id,
		Name:           name,
		TimeSlot:       slot,
		GroupSizeMin:   minSize,
		GroupSizeMax:   maxSize,
		PricePerPerson: price,
		Currency:       defaultCurrency,
		IsAvailable:    true,
	}
}

func unavailable(v model.ActivityVariation) model.ActivityVariation {
	v.IsAvailable = false
	return v
}

func seedActivities() []model.Activity {
	return []model.Activity{
		{
			ID:          "burj-khalifa-observation",
			Name:        "Burj Khalifa At The Top - Observation Deck",
			Description: "Skip-the-line access to Burj Khalifa's observation deck with stunning city views.",
			Images:      []string{"https://cdn.pixabay.com/photo/2013/04/21/14/49/dubai-106202_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("prime-hours-small-group", "Prime Hours (Sunset) - Small Group", "16:00-19:00", 1, 6, 320),
				variation("non-prime-standard", "Non-Prime Hours - Standard", "10:00-15:00", 1, 10, 210),
			},
			CancellationPolicy: "Full refund up to 48 hours before visit. No refund within 48 hours.",
			ReschedulePolicy:   "Free reschedule up to 24 hours before visit, subject to availability.",
		},
		{
			ID:          "desert-safari",
			Name:        "Premium Desert Safari with BBQ Dinner",
			Description: "Evening desert safari with dune bashing, camel ride, live shows, and BBQ dinner.",
			Images: []string{
				"https://www.desertsafaridubai.com/img/portfolio/1.jpg",
				"https://www.desertsafaridubai.com/img/portfolio/2.jpg",
			},
			Variations: []model.ActivityVariation{
				variation("safari-shared-4x4", "Shared 4x4 Vehicle", "15:00-22:00", 1, 6, 280),
				variation("safari-private-4x4", "Private 4x4 Vehicle", "15:00-22:00", 2, 6, 450),
			},
			CancellationPolicy: "Full refund up to 24 hours before experience.",
			ReschedulePolicy:   "One free reschedule up to 12 hours before pick-up.",
		},
		{
			ID:          "dubai-marina-cruise",
			Name:        "Dubai Marina Dhow Cruise with Dinner",
			Description: "Relaxing dhow cruise along Dubai Marina with buffet dinner and soft drinks.",
			Images:      []string{"https://cdn.pixabay.com/photo/2013/12/17/23/31/dubai-230075_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("cruise-upper-deck", "Upper Deck - Open Air", "20:00-22:00", 1, 8, 220),
				variation("cruise-lower-deck", "Lower Deck - AC", "20:00-22:00", 1, 10, 190),
			},
			CancellationPolicy: "Full refund up to 24 hours before cruise.",
			ReschedulePolicy:   "Free reschedule up to 6 hours before boarding.",
		},
		{
			ID:          "dubai-frame",
			Name:        "Dubai Frame Entry Ticket",
			Description: "Visit Dubai Frame and enjoy panoramic views of old and new Dubai.",
			Images:      []string{"https://cdn.pixabay.com/photo/2021/07/23/07/51/dubai-6486776_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("frame-standard", "Standard Entry", "09:00-21:00", 1, 15, 75),
			},
			CancellationPolicy: "Full refund up to 24 hours before visit.",
			ReschedulePolicy:   "Free reschedule up to 12 hours before entry.",
		},
		{
			ID:          "global-village",
			Name:        "Global Village Entry with Transfers",
			Description: "Evening visit to Global Village with optional transfer from Dubai hotels.",
			Images:      []string{"https://cdn.pixabay.com/photo/2015/03/18/15/00/global-village-679413_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("gv-entry-only", "Entry Ticket Only", "16:00-23:00", 1, 20, 30),
				variation("gv-entry-transfer", "Entry + Shared Transfers", "16:00-23:00", 2, 10, 120),
			},
			CancellationPolicy: "Non-refundable once booked.",
			ReschedulePolicy:   "No reschedule available.",
		},
		{
			ID:          "aquaventure",
			Name:        "Aquaventure Waterpark at Atlantis",
			Description: "Full-day access to Aquaventure Waterpark with record-breaking slides.",
			Images:      []string{"https://cdn.pixabay.com/photo/2015/09/14/14/37/aquaventure-939646_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("aquaventure-standard", "Standard Full-Day Access", "10:00-18:00", 1, 10, 350),
			},
			CancellationPolicy: "Full refund up to 48 hours before date.",
			ReschedulePolicy:   "One free reschedule up to 24 hours before visit.",
		},
		{
			ID:          "skydiving-palm",
			Name:        "Tandem Skydive over The Palm",
			Description: "Bucket-list tandem skydive with views over Palm Jumeirah.",
			Images:      []string{"https://cdn.pixabay.com/photo/2017/09/05/12/52/skydive-2717507_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("skydiving-morning", "Morning Slot", "08:00-11:00", 1, 4, 2200),
				unavailable(variation("skydiving-afternoon", "Afternoon Slot", "12:00-15:00", 1, 4, 2200)),
			},
			CancellationPolicy: "Strict weather and safety dependent. Refunds/reschedules as per operator policy.",
			ReschedulePolicy:   "Reschedules allowed only if operator cancels due to weather.",
		},
		{
			ID:          "miracle-garden",
			Name:        "Dubai Miracle Garden Entry",
			Description: "Access to the world's largest natural flower garden.",
			Images:      []string{"https://cdn.pixabay.com/photo/2018/09/18/13/29/miracle-garden-dubai-3686191_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("miracle-standard", "Standard Entry", "09:00-21:00", 1, 15, 85),
			},
			CancellationPolicy: "Full refund up to 24 hours before visit.",
			ReschedulePolicy:   "Free reschedule up to 12 hours before entry.",
		},
		{
			ID:          "dolphinarium",
			Name:        "Dubai Dolphinarium Dolphin & Seal Show",
			Description: "Family-friendly dolphin and seal show with optional VIP seating.",
			Images:      []string{"https://cdn.pixabay.com/photo/2016/01/11/01/46/dolphins-1132847_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("dolphin-regular", "Regular Seat", "11:00-12:00", 1, 15, 110),
				variation("dolphin-vip", "VIP Seat", "15:00-16:00", 1, 10, 175),
			},
			CancellationPolicy: "Full refund up to 24 hours before show.",
			ReschedulePolicy:   "Free reschedule up to 6 hours before show time.",
		},
		{
			ID:          "la-perle-show",
			Name:        "La Perle by Dragone Show",
			Description: "Spectacular aqua theater show with gravity-defying stunts.",
			Images:      []string{"https://cdn.pixabay.com/photo/2023/08/24/00/58/horse-8209523_1280.jpg"},
			Variations: []model.ActivityVariation{
				variation("la-perle-silver", "Silver Ticket", "19:00-20:30", 1, 10, 350),
				variation("la-perle-gold", "Gold Ticket", "21:00-22:30", 1, 8, 480),
			},
			CancellationPolicy: "Full refund up to 48 hours before show.",
			ReschedulePolicy:   "Free reschedule up to 24 hours before show.",
		},
	}
}
