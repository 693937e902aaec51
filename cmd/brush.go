package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/parser"
)

// brushFlags are the match-selection flags shared by 'team', 'matches' and 'analyze'.
type brushFlags struct {
	season       string
	venue        string
	gfMin, gfMax int
	gaMin, gaMax int
	from, to     string
}

func (b *brushFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.season, "season", "", "only matches from this season (e.g. 2024-25)")
	f.StringVar(&b.venue, "venue", "", "only Home or Away matches")
	f.IntVar(&b.gfMin, "gf-min", 0, "minimum goals for")
	f.IntVar(&b.gfMax, "gf-max", 0, "maximum goals for")
	f.IntVar(&b.gaMin, "ga-min", 0, "minimum goals against")
	f.IntVar(&b.gaMax, "ga-max", 0, "maximum goals against")
	f.StringVar(&b.from, "from", "", "first match date (dd/mm/yyyy or yyyy-mm-dd)")
	f.StringVar(&b.to, "to", "", "last match date (dd/mm/yyyy or yyyy-mm-dd)")
}

// filter converts the flags that were set on cmd into a dataset.Filter.
func (b *brushFlags) filter(cmd *cobra.Command) (dataset.Filter, error) {
	var f dataset.Filter
	f.Season = b.season
	if b.venue != "" {
		f.Venue = model.ParseVenue(b.venue)
		if f.Venue == model.VenueUnknown {
			return f, fmt.Errorf("invalid --venue %q (want Home or Away)", b.venue)
		}
	}

	flags := cmd.Flags()
	bound := func(name string, v int) *int {
		if !flags.Changed(name) {
			return nil
		}
		n := v
		return &n
	}
	f.GF = dataset.Range{Min: bound("gf-min", b.gfMin), Max: bound("gf-max", b.gfMax)}
	f.GA = dataset.Range{Min: bound("ga-min", b.gaMin), Max: bound("ga-max", b.gaMax)}

	var err error
	if b.from != "" {
		if f.From, err = parser.ParseDate(b.from); err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if b.to != "" {
		if f.To, err = parser.ParseDate(b.to); err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return f, nil
}
