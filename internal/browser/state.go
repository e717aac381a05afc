package browser

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
)

// State is the per-collection view state.
type State int

const (
	// Idle means the collection has not been searched yet.
	Idle State = iota
	// Loading means a search is in flight.
	Loading
	// Ready means the last search finished, successfully or not.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Tab is a top-level view.
type Tab string

// Tabs.
const (
	TabLiterature Tab = "literature"
	TabTaxonomy   Tab = "taxonomy"
	TabSamples    Tab = "samples"
	TabAbout      Tab = "about"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabLiterature, TabTaxonomy, TabSamples, TabAbout}

// ParseTab accepts a tab name or a collection alias.
func ParseTab(s string) (Tab, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(TabAbout)) {
		return TabAbout, nil
	}
	kind, err := record.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("unknown tab %q", s)
	}
	return Tab(kind), nil
}

// Kind returns the collection shown on the tab. ok is false for about.
func (t Tab) Kind() (record.Kind, bool) {
	k := record.Kind(t)
	return k, k.IsValid()
}

// Change identifies what an Event reports.
type Change string

// Changes.
const (
	ChangeLoading   Change = "loading"
	ChangeDisplay   Change = "display"
	ChangeSelection Change = "selection"
	ChangeTab       Change = "tab"
)

// Event is delivered to observers after a state change. Kind is empty for
// tab changes and deselection.
type Event struct {
	Change Change
	Kind   record.Kind
}
