package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/eplswing/internal/model"
)

func ip(n int) *int { return &n }

func TestPrintSwingTable(t *testing.T) {
	rows := []model.DeltaRow{
		{Team: "Forest", Season1Points: ip(32), Season2Points: ip(65), Delta: ip(33), Direction: model.DirectionRise, IsMaxRiser: true, IsExtreme: true},
		{Team: "Ipswich", Season2Points: ip(22)},
	}
	var buf bytes.Buffer
	PrintSwingTable(&buf, rows, "Forest")
	out := buf.String()

	for _, want := range []string{"Forest", "+33", "significant upswing", "* riser", "Ipswich", "—"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHomeAwayTableMissingSeason(t *testing.T) {
	split := []model.VenuePoints{
		{Season: model.Season2, Team: "Ipswich", Venue: model.VenueHome, Points: 12},
		{Season: model.Season2, Team: "Ipswich", Venue: model.VenueAway, Points: 10},
	}
	var buf bytes.Buffer
	PrintHomeAwayTable(&buf, split, "")
	out := buf.String()
	if !strings.Contains(out, "12") || !strings.Contains(out, "—") {
		t.Errorf("expected points and dashes for the missing season:\n%s", out)
	}
}

func TestPrintCallouts(t *testing.T) {
	var buf bytes.Buffer
	PrintCallouts(&buf, nil)
	if !strings.Contains(buf.String(), NoMatchesMessage) {
		t.Errorf("empty callouts should print the no-matches message, got %q", buf.String())
	}

	buf.Reset()
	PrintCallouts(&buf, []string{"2024-09-14: Villa 3-0 vs Everton (Home) was a high-value win."})
	if !strings.HasPrefix(buf.String(), "  - 2024-09-14") {
		t.Errorf("unexpected callout line %q", buf.String())
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"team", "delta_points"}, [][]string{{"Forest", "33"}, {"Ipswich", "NULL"}})
	out := buf.String()
	for _, want := range []string{"Forest", "33", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintQueryResult(&buf, []string{"team"}, nil)
	if !strings.Contains(buf.String(), "eplswing load") {
		t.Errorf("empty result should hint at load, got %q", buf.String())
	}
}
