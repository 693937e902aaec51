// Package dataset wires the season files through the derivation pipeline and
// memoises the result for the life of the process.
package dataset

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pable/eplswing/internal/aggregator"
	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/parser"
)

// Dataset holds the five derived tables. Treat every slice as read-only;
// use Filter to obtain copies.
type Dataset struct {
	Signature   string
	Matches     []model.Match
	TeamMatches []model.TeamMatch
	Summary     []model.TeamSeasonSummary
	HomeAway    []model.VenuePoints
	Deltas      []model.DeltaRow
}

// Build runs normalisation, expansion, aggregation and delta calculation
// over the combined fixtures of both seasons.
func Build(fixtures []model.RawFixture) (*Dataset, error) {
	matches, err := aggregator.Normalize(fixtures)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	teamMatches := aggregator.Expand(matches)
	summary := aggregator.Summarize(teamMatches)
	return &Dataset{
		Matches:     matches,
		TeamMatches: teamMatches,
		Summary:     summary,
		HomeAway:    aggregator.VenueSplit(teamMatches),
		Deltas:      aggregator.Deltas(summary),
	}, nil
}

// Teams returns the teams with a season-over-season delta, sorted by name.
func (d *Dataset) Teams() []string {
	var out []string
	for _, r := range d.Deltas {
		if r.HasDelta() {
			out = append(out, r.Team)
		}
	}
	return out
}

// Ranked returns the delta rows with a delta, largest first.
func (d *Dataset) Ranked() []model.DeltaRow {
	return aggregator.Ranked(d.Deltas)
}

// Extremes returns the max riser and max faller rows. ok is false when no
// team played both seasons.
func (d *Dataset) Extremes() (riser, faller model.DeltaRow, ok bool) {
	return aggregator.Extremes(d.Deltas)
}

// Sources names the two season files to load.
type Sources struct {
	Season1Path string
	Season2Path string
}

// Loader reads Sources and builds a Dataset, reusing the previous result
// while the file contents are unchanged. It is safe for concurrent use.
type Loader struct {
	log *zap.Logger

	mu       sync.Mutex
	cache    map[string]*Dataset
	sessions map[Sources]*Dataset
}

// NewLoader returns a Loader that logs through log (nil for no logging).
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		log:      log,
		cache:    make(map[string]*Dataset),
		sessions: make(map[Sources]*Dataset),
	}
}

// Session returns the Dataset built for src on the first successful call and
// never touches the files again. Failed loads are not remembered.
func (l *Loader) Session(src Sources) (*Dataset, error) {
	l.mu.Lock()
	ds, ok := l.sessions[src]
	l.mu.Unlock()
	if ok {
		return ds, nil
	}

	ds, err := l.Load(src)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.sessions[src]; ok {
		return prev, nil
	}
	l.sessions[src] = ds
	return ds, nil
}

// Load parses both files, then returns the cached Dataset for their combined
// content hash or builds and caches a new one. Every call reads the files;
// use Session to read them once per process.
func (l *Loader) Load(src Sources) (*Dataset, error) {
	start := time.Now()
	s1, err := parser.ParseSeasonFile(src.Season1Path, model.Season1)
	if err != nil {
		return nil, err
	}
	s2, err := parser.ParseSeasonFile(src.Season2Path, model.Season2)
	if err != nil {
		return nil, err
	}
	sig := Signature(s1.Hash, s2.Hash)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ds, ok := l.cache[sig]; ok {
		l.log.Debug("dataset cache hit", zap.String("signature", sig[:12]))
		return ds, nil
	}

	fixtures := make([]model.RawFixture, 0, len(s1.Fixtures)+len(s2.Fixtures))
	fixtures = append(fixtures, s1.Fixtures...)
	fixtures = append(fixtures, s2.Fixtures...)
	ds, err := Build(fixtures)
	if err != nil {
		return nil, err
	}
	ds.Signature = sig
	l.cache[sig] = ds

	l.log.Debug("dataset built",
		zap.String("signature", sig[:12]),
		zap.Int("matches", len(ds.Matches)),
		zap.Int("team_matches", len(ds.TeamMatches)),
		zap.Int("teams", len(ds.Deltas)),
		zap.Duration("took", time.Since(start)))
	return ds, nil
}

// Signature combines per-file content hashes into the cache key.
func Signature(hashes ...string) string {
	h := sha256.New()
	for _, s := range hashes {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Range is an inclusive numeric interval; a nil bound is open.
type Range struct {
	Min, Max *int
}

func (r Range) contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Filter selects team-match rows. Zero-valued fields match everything.
type Filter struct {
	Team   string
	Season string
	Venue  model.Venue
	GF     Range
	GA     Range
	From   time.Time // inclusive
	To     time.Time // inclusive
}

// Filter returns a fresh slice of the team-match rows matching f, in table
// order. It never modifies the Dataset.
func (d *Dataset) Filter(f Filter) []model.TeamMatch {
	var out []model.TeamMatch
	for _, r := range d.TeamMatches {
		if f.Team != "" && r.Team != f.Team {
			continue
		}
		if f.Season != "" && r.Season != f.Season {
			continue
		}
		if f.Venue != model.VenueUnknown && r.Venue != f.Venue {
			continue
		}
		if !f.GF.contains(r.GF) || !f.GA.contains(r.GA) {
			continue
		}
		if !f.From.IsZero() && r.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Details sorts a copy of rows by date ascending and keeps at most n (n <= 0
// keeps all).
func Details(rows []model.TeamMatch, n int) []model.TeamMatch {
	out := make([]model.TeamMatch, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
