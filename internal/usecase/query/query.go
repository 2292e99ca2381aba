// Package query holds the read-side views over committed applications. The
// functions are pure; View adds the dashboard's sample-data toggle.
package query

import (
	"strings"
	"sync/atomic"

	"vehicleloan/internal/domain/loan"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Counts are the dashboard tiles.
type Counts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Resolved  int `json:"resolved"`
}

// Search keeps the applications whose customer name, vehicle model or id
// contains q (case-insensitive; spaces in q are matched as typed) and whose
// status equals status. An empty q matches everything, as does status "all"
// or "". Order is preserved.
func Search(apps []loan.Application, q, status string) []loan.Application {
	q = strings.ToLower(q)
	out := make([]loan.Application, 0, len(apps))
	for _, a := range apps {
		if !matchesText(a, q) {
			continue
		}
		if status != "" && status != StatusAll && string(a.Status) != status {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesText(a loan.Application, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Customer.Name), q) ||
		strings.Contains(strings.ToLower(a.Vehicle.Model), q) ||
		strings.Contains(strings.ToLower(a.ID), q)
}

func Stats(apps []loan.Application) Counts {
	s := Counts{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case loan.StatusDraft, loan.StatusCalculated:
			s.Pending++
		case loan.StatusSubmitted, loan.StatusUnderReview:
			s.Submitted++
		case loan.StatusApproved, loan.StatusRejected:
			s.Resolved++
		}
	}
	return s
}

// View is what the dashboard displays: the live collection, or the built-in
// samples when sample mode is on and nothing has been committed yet.
type View struct {
	source func() []loan.Application
	sample atomic.Bool
}

func NewView(source func() []loan.Application) *View {
	return &View{source: source}
}

func (v *View) SetSample(on bool) { v.sample.Store(on) }
func (v *View) Sample() bool      { return v.sample.Load() }

// Applications returns the displayed collection.
func (v *View) Applications() []loan.Application {
	apps := v.source()
	if len(apps) == 0 && v.sample.Load() {
		return SampleApplications()
	}
	return apps
}

func (v *View) Search(q, status string) []loan.Application {
	return Search(v.Applications(), q, status)
}

func (v *View) Stats() Counts { return Stats(v.Applications()) }

// Find looks an application up among the displayed ones, samples included.
func (v *View) Find(id string) (loan.Application, bool) {
	for _, a := range v.Applications() {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return loan.Application{}, false
}
