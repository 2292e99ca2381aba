package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicleloan/internal/domain/loan"
)

func ids(apps []loan.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	apps := SampleApplications()
	cases := []struct {
		name   string
		q      string
		status string
		want   []string
	}{
		{"empty query matches all", "", StatusAll, []string{"APP-DEMO001", "APP-DEMO002", "APP-DEMO003"}},
		{"customer name any case", "priya", StatusAll, []string{"APP-DEMO002"}},
		{"customer name with wrong status", "priya", string(loan.StatusDraft), []string{}},
		{"vehicle model", "CITY", "", []string{"APP-DEMO003"}},
		{"id substring", "demo00", StatusAll, []string{"APP-DEMO001", "APP-DEMO002", "APP-DEMO003"}},
		{"status only", "", string(loan.StatusSubmitted), []string{"APP-DEMO001"}},
		{"make is not searched", "hyundai", StatusAll, []string{}},
		{"spaces are part of the query", "h k", StatusAll, []string{"APP-DEMO001"}},
		{"trailing space is not trimmed", "kumar ", StatusAll, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Search(apps, tc.q, tc.status)))
		})
	}
}

func TestStats(t *testing.T) {
	apps := SampleApplications()
	apps = append(apps,
		loan.Application{ID: "a", Status: loan.StatusUnderReview},
		loan.Application{ID: "b", Status: loan.StatusApproved},
		loan.Application{ID: "c", Status: loan.StatusRejected},
	)
	assert.Equal(t, Counts{Total: 6, Pending: 2, Submitted: 2, Resolved: 2}, Stats(apps))
	assert.Equal(t, Counts{}, Stats(nil))
}

func TestView_SampleOnlyWhenEmpty(t *testing.T) {
	var live []loan.Application
	v := NewView(func() []loan.Application { return live })

	assert.Empty(t, v.Applications())
	v.SetSample(true)
	assert.True(t, v.Sample())
	assert.Len(t, v.Applications(), 3)
	assert.Equal(t, 3, v.Stats().Total)

	got, ok := v.Find("APP-DEMO002")
	require.True(t, ok)
	assert.Equal(t, "Priya Sharma", got.Customer.Name)

	live = []loan.Application{{ID: "APP-REAL0001", Status: loan.StatusCalculated}}
	assert.Equal(t, []string{"APP-REAL0001"}, ids(v.Applications()))
	_, ok = v.Find("APP-DEMO002")
	assert.False(t, ok)

	v.SetSample(false)
	live = nil
	assert.Empty(t, v.Search("", StatusAll))
}

func TestSampleApplications_FreshCopies(t *testing.T) {
	a := SampleApplications()
	a[0].LoanOffer.MonthlyEMI = 1
	b := SampleApplications()
	assert.Equal(t, 12197.0, b[0].LoanOffer.MonthlyEMI)
	assert.Equal(t, Counts{Total: 3, Pending: 2, Submitted: 1}, Stats(b))
}
