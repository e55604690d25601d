// Package catalog provides read-only lookup of activities and their variations.
package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

var (
	// ErrActivityNotFound is returned when no activity has the requested id.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrVariationNotFound is returned when the activity has no such variation.
	ErrVariationNotFound = errors.New("variation not found")
)

// Lookup is the read-only view of the activity catalog.
type Lookup interface {
	List() []model.Activity
	Search(query string) []model.Activity
	FindActivity(id string) (*model.Activity, error)
	FindVariation(activityID, variationID string) (*model.Activity, *model.ActivityVariation, error)
}

// Catalog is an immutable in-memory catalog. It is safe for concurrent use.
type Catalog struct {
	activities map[string]model.Activity
	order      []string
}

// New builds a catalog from the given activities, preserving their order.
func New(activities []model.Activity) *Catalog {
	c := &Catalog{activities: make(map[string]model.Activity, len(activities))}
	for _, a := range activities {
		if _, dup := c.activities[a.ID]; !dup {
			c.order = append(c.order, a.ID)
		}
		c.activities[a.ID] = a
	}
	return c
}

// NewSeeded returns the catalog of Dubai demo activities.
func NewSeeded() *Catalog {
	return New(seedActivities())
}

// List returns all activities in catalog order.
func (c *Catalog) List() []model.Activity {
	out := make([]model.Activity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.activities[id])
	}
	return out
}

// Search returns activities whose name or description contains query,
// case-insensitively.
func (c *Catalog) Search(query string) []model.Activity {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Activity
	for _, a := range c.List() {
		if strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Description), q) {
			out = append(out, a)
		}
	}
	return out
}

// FindActivity resolves an activity by id.
func (c *Catalog) FindActivity(id string) (*model.Activity, error) {
	a, ok := c.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &a, nil
}

// FindVariation resolves an activity and one of its variations.
func (c *Catalog) FindVariation(activityID, variationID string) (*model.Activity, *model.ActivityVariation, error) {
	a, err := c.FindActivity(activityID)
	if err != nil {
		return nil, nil, err
	}
	v, ok := a.Variation(variationID)
	if !ok {
		return a, nil, ErrVariationNotFound
	}
	return a, &v, nil
}

// IDs returns the sorted activity ids. Useful for prompts and diagnostics.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}
