package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/eplswing/internal/model"
)

func on(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func raw(season string, date time.Time, home, away string, hg, ag int) model.RawFixture {
	ftr := model.ResultDraw
	switch {
	case hg > ag:
		ftr = model.ResultHome
	case ag > hg:
		ftr = model.ResultAway
	}
	return model.RawFixture{Season: season, Date: date, HomeTeam: home, AwayTeam: away, FTHG: hg, FTAG: ag, FTR: ftr}
}

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Build([]model.RawFixture{
		raw(model.Season1, on(2023, 8, 12), "Villa", "Everton", 1, 0),
		raw(model.Season1, on(2023, 9, 2), "Everton", "Villa", 3, 0),
		raw(model.Season1, on(2023, 9, 30), "Villa", "Luton", 2, 2),
		raw(model.Season2, on(2024, 8, 17), "Villa", "Everton", 4, 0),
		raw(model.Season2, on(2024, 9, 14), "Everton", "Villa", 1, 2),
		raw(model.Season2, on(2024, 10, 5), "Villa", "Ipswich", 1, 1),
	})
	require.NoError(t, err)
	return ds
}

func ptr(n int) *int { return &n }

func TestBuild(t *testing.T) {
	ds := sample(t)
	assert.Len(t, ds.Matches, 6)
	assert.Len(t, ds.TeamMatches, 12)
	assert.Equal(t, []string{"Everton", "Villa"}, ds.Teams())

	riser, faller, ok := ds.Extremes()
	require.True(t, ok)
	// Villa 4 -> 7, Everton 3 -> 0.
	assert.Equal(t, "Villa", riser.Team)
	assert.Equal(t, 3, *riser.Delta)
	assert.Equal(t, "Everton", faller.Team)
	assert.Equal(t, -3, *faller.Delta)

	ranked := ds.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "Villa", ranked[0].Team)
}

func TestBuildWrapsValidationError(t *testing.T) {
	bad := raw(model.Season1, on(2023, 8, 12), "Villa", "Everton", 1, 0)
	bad.FTR = "Z"
	_, err := Build([]model.RawFixture{bad})
	var ve *model.DataValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "FTR", ve.Field)
}

func TestFilter(t *testing.T) {
	ds := sample(t)

	all := ds.Filter(Filter{})
	assert.Len(t, all, len(ds.TeamMatches))

	villa := ds.Filter(Filter{Team: "Villa"})
	assert.Len(t, villa, 6)

	home := ds.Filter(Filter{Team: "Villa", Season: model.Season2, Venue: model.VenueHome})
	require.Len(t, home, 2)
	for _, r := range home {
		assert.Equal(t, model.VenueHome, r.Venue)
		assert.Equal(t, model.Season2, r.Season)
	}

	bigWins := ds.Filter(Filter{Team: "Villa", GF: Range{Min: ptr(2)}, GA: Range{Max: ptr(1)}})
	require.Len(t, bigWins, 2)
	assert.Equal(t, "Everton", bigWins[0].Opponent)

	autumn := ds.Filter(Filter{Team: "Villa", From: on(2023, 9, 2), To: on(2023, 9, 30)})
	assert.Len(t, autumn, 2, "date bounds are inclusive")

	assert.Empty(t, ds.Filter(Filter{Team: "Villa", GF: Range{Min: ptr(9)}}))
}

func TestFilterDoesNotAliasDataset(t *testing.T) {
	ds := sample(t)
	rows := ds.Filter(Filter{Team: "Villa"})
	rows[0].Points = 99
	for _, r := range ds.TeamMatches {
		assert.NotEqual(t, 99, r.Points)
	}
}

func TestDetails(t *testing.T) {
	ds := sample(t)
	rows := ds.Filter(Filter{Team: "Villa"})

	out := Details(rows, 4)
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Date.Before(out[i-1].Date))
	}
	assert.Equal(t, on(2023, 8, 12), out[0].Date)

	assert.Len(t, Details(rows, 0), 6)
	empty := Details(nil, 5)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStory(t *testing.T) {
	ds := sample(t)

	st, ok := ds.Story("Villa", Filter{})
	require.True(t, ok)
	assert.Equal(t, "Villa", st.Team)
	assert.Equal(t, 6, st.Selected)
	assert.Len(t, st.Matches, 6)
	assert.NotEmpty(t, st.Callouts)
	assert.LessOrEqual(t, len(st.Callouts), 3)
	assert.Empty(t, st.Message)
	require.NotNil(t, st.Breakdown)
	assert.Equal(t, 3, st.Breakdown.TotalChange)
	assert.Contains(t, st.Sentence, "Villa moved from 4 points")

	_, ok = ds.Story("Leeds", Filter{})
	assert.False(t, ok)
}

func TestStoryEmptySelection(t *testing.T) {
	ds := sample(t)

	st, ok := ds.Story("Villa", Filter{GF: Range{Min: ptr(10)}})
	require.True(t, ok)
	assert.Equal(t, 0, st.Selected)
	assert.NotNil(t, st.Callouts)
	assert.Empty(t, st.Callouts)
	assert.Equal(t, NoMatchesMessage, st.Message)
	// The season-level story is independent of the selection.
	assert.NotEmpty(t, st.Sentence)
}

func TestStoryOverridesFilterTeam(t *testing.T) {
	ds := sample(t)
	st, ok := ds.Story("Villa", Filter{Team: "Everton"})
	require.True(t, ok)
	for _, m := range st.Matches {
		assert.Equal(t, "Villa", m.Team)
	}
}

const season1CSV = "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n12/08/2023,Villa,Everton,1,0,H\n02/09/2023,Everton,Villa,3,0,H\n"
const season2CSV = "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n17/08/2024,Villa,Everton,4,0,H\n"

func writeSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	src := Sources{
		Season1Path: filepath.Join(dir, "s1.csv"),
		Season2Path: filepath.Join(dir, "s2.csv"),
	}
	require.NoError(t, os.WriteFile(src.Season1Path, []byte(season1CSV), 0o644))
	require.NoError(t, os.WriteFile(src.Season2Path, []byte(season2CSV), 0o644))
	return src
}

func TestLoaderCachesByContent(t *testing.T) {
	src := writeSources(t)
	l := NewLoader(nil)

	first, err := l.Load(src)
	require.NoError(t, err)
	second, err := l.Load(src)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged files should hit the cache")
	assert.NotEmpty(t, first.Signature)

	// Changing either file produces a fresh dataset.
	require.NoError(t, os.WriteFile(src.Season2Path,
		[]byte(season2CSV+"14/09/2024,Everton,Villa,1,2,A\n"), 0o644))
	third, err := l.Load(src)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.NotEqual(t, first.Signature, third.Signature)
	assert.Len(t, third.Matches, 4)
}

func TestLoaderErrors(t *testing.T) {
	src := writeSources(t)
	l := NewLoader(nil)

	_, err := l.Load(Sources{Season1Path: src.Season1Path, Season2Path: src.Season2Path + ".missing"})
	assert.Error(t, err)

	// A fixture repeated across the same season is rejected.
	require.NoError(t, os.WriteFile(src.Season1Path,
		[]byte(season1CSV+"12/08/2023,Villa,Everton,0,0,D\n"), 0o644))
	_, err = l.Load(src)
	var de *model.DuplicateMatchError
	assert.ErrorAs(t, err, &de)
}

func TestSignature(t *testing.T) {
	assert.Equal(t, Signature("a", "b"), Signature("a", "b"))
	assert.NotEqual(t, Signature("a", "b"), Signature("b", "a"))
	assert.NotEqual(t, Signature("ab", ""), Signature("a", "b"))
}

func TestLoaderSessionReadsFilesOnce(t *testing.T) {
	src := writeSources(t)
	l := NewLoader(nil)

	first, err := l.Session(src)
	require.NoError(t, err)

	// Neither a content change nor a missing file affects the session.
	require.NoError(t, os.WriteFile(src.Season2Path,
		[]byte(season2CSV+"14/09/2024,Everton,Villa,1,2,A\n"), 0o644))
	require.NoError(t, os.Remove(src.Season1Path))

	again, err := l.Session(src)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, again.Matches, 3)
}

func TestLoaderSessionRetriesAfterFailure(t *testing.T) {
	src := writeSources(t)
	require.NoError(t, os.Remove(src.Season2Path))
	l := NewLoader(nil)

	_, err := l.Session(src)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(src.Season2Path, []byte(season2CSV), 0o644))
	ds, err := l.Session(src)
	require.NoError(t, err)
	assert.Len(t, ds.Matches, 3)
}
