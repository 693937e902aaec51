package dataset

import (
	"github.com/pable/eplswing/internal/insights"
	"github.com/pable/eplswing/internal/model"
)

// DetailLimit caps the match-detail rows returned with a team story.
const DetailLimit = 20

// NoMatchesMessage accompanies a story whose selection is empty.
const NoMatchesMessage = "no matches in selection"

// Story is one team's narrative bundle.
type Story struct {
	Team      string              `json:"team"`
	Delta     model.DeltaRow      `json:"delta"`
	Band      insights.Band       `json:"band,omitempty"`
	Sentence  string              `json:"sentence"`
	Breakdown *insights.Breakdown `json:"breakdown,omitempty"`
	Driver    string              `json:"driver_sentence,omitempty"`
	Callouts  []string            `json:"callouts"`
	Selected  int                 `json:"selected"`
	Matches   []model.TeamMatch   `json:"matches"`
	Message   string              `json:"message,omitempty"`
}

// Story assembles the narrative for team, applying f to its matches before
// picking callouts. f.Team is overridden. ok is false for an unknown team.
func (d *Dataset) Story(team string, f Filter) (Story, bool) {
	row, ok := insights.TeamDelta(d.Deltas, team)
	if !ok {
		return Story{}, false
	}
	st := Story{Team: team, Delta: row, Sentence: insights.StorySentence(row)}
	if row.HasDelta() {
		st.Band = insights.Movement(float64(*row.Delta))
	}
	if b, ok := insights.HomeAwayBreakdown(d.HomeAway, team); ok {
		st.Breakdown = &b
		st.Driver = insights.DriverSentence(b)
	}

	f.Team = team
	selected := d.Filter(f)
	st.Selected = len(selected)
	st.Callouts = insights.MatchCallouts(selected, team)
	if st.Callouts == nil {
		st.Callouts = []string{}
	}
	st.Matches = Details(selected, DetailLimit)
	if len(selected) == 0 {
		st.Message = NoMatchesMessage
	}
	return st, true
}
