package model

// ActivityVariation is a bookable configuration of an activity.
// Group size bounds are inclusive.
type ActivityVariation struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TimeSlot       string  `json:"time_slot"`
	GroupSizeMin   int     `json:"group_size_min"`
	GroupSizeMax   int     `json:"group_size_max"`
	PricePerPerson float64 `json:"price_per_person"`
	Currency       string  `json:"currency"`
	IsAvailable    bool    `json:"is_available"`
}

// Activity is a catalog entry.
type Activity struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Images             []string            `json:"images"`
	Variations         []ActivityVariation `json:"variations"`
	CancellationPolicy string              `json:"cancellation_policy"`
	ReschedulePolicy   string              `json:"reschedule_policy"`
}

// Variation returns the variation with the given id.
func (a *Activity) Variation(id string) (ActivityVariation, bool) {
	for _, v := range a.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return ActivityVariation{}, false
}
