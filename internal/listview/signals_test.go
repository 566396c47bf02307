package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"issuedesk/internal/domain"
)

func TestNewSignalsFillsDefaults(t *testing.T) {
	s := NewSignals(SignalState{})
	assert.Equal(t, DefaultSignalState(), s.Current())

	custom := NewSignals(SignalState{Sort: Sort{Column: "title"}, Page: Page{Index: -3, Size: 25}})
	got := custom.Current()
	assert.Equal(t, Sort{Column: "title", Direction: domain.SortDesc}, got.Sort)
	assert.Equal(t, Page{Index: 0, Size: 25}, got.Page)
}

func TestSetSortResetsPageBeforeNotify(t *testing.T) {
	s := NewSignals(SignalState{})
	s.SetPage(2, 10)

	var seen []SignalState
	s.subscribe(func(Signal) { seen = append(seen, s.Current()) })
	s.SetSort("priority", domain.SortAsc)

	assert.Len(t, seen, 1)
	assert.Equal(t, 0, seen[0].Page.Index)
	assert.Equal(t, 10, seen[0].Page.Size)
	assert.Equal(t, Sort{Column: "priority", Direction: domain.SortAsc}, seen[0].Sort)
}

func TestOnlySortResetsPage(t *testing.T) {
	s := NewSignals(SignalState{})
	s.SetPage(3, 10)
	s.SetStatus(domain.StatusClosed)
	s.SetPriority(domain.PriorityLow)
	s.SetSearch("crash")
	assert.Equal(t, 3, s.Current().Page.Index)
}

func TestSetPageClampsInvalidValues(t *testing.T) {
	s := NewSignals(SignalState{Page: Page{Size: 20}})
	s.SetPage(-1, 0)
	assert.Equal(t, Page{Index: 0, Size: 20}, s.Current().Page)

	s.SetPage(4, -5)
	assert.Equal(t, Page{Index: 4, Size: 20}, s.Current().Page)

	s.SetPageIndex(1)
	assert.Equal(t, Page{Index: 1, Size: 20}, s.Current().Page)
}

func TestSettersNotifyOnRepeatedValues(t *testing.T) {
	s := NewSignals(SignalState{})
	var got []Signal
	s.subscribe(func(sig Signal) { got = append(got, sig) })

	s.SetStatus(domain.StatusOpen)
	s.SetStatus(domain.StatusOpen)
	s.SetPriority(domain.PriorityAny)
	s.SetSort("updatedAt", domain.SortDesc)
	s.SetPage(0, 10)

	assert.Equal(t, []Signal{SignalStatus, SignalStatus, SignalPriority, SignalSort, SignalPage}, got)
}
