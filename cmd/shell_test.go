package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/report"
	"github.com/pable/eplswing/internal/storage"
)

func sessionDB(t *testing.T) (*storage.DB, *dataset.Dataset) {
	t.Helper()
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	ds, err := dataset.Build([]model.RawFixture{
		{Season: model.Season1, Date: day(2023, 8, 12), HomeTeam: "Forest", AwayTeam: "Arsenal", FTHG: 0, FTAG: 2, FTR: model.ResultAway},
		{Season: model.Season1, Date: day(2023, 9, 2), HomeTeam: "Arsenal", AwayTeam: "Forest", FTHG: 1, FTAG: 1, FTR: model.ResultDraw},
		{Season: model.Season2, Date: day(2024, 8, 17), HomeTeam: "Forest", AwayTeam: "Arsenal", FTHG: 3, FTAG: 0, FTR: model.ResultHome},
		{Season: model.Season2, Date: day(2024, 9, 14), HomeTeam: "Arsenal", AwayTeam: "Forest", FTHG: 0, FTAG: 1, FTR: model.ResultAway},
	})
	require.NoError(t, err)

	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.SaveDataset(ds))
	return db, ds
}

func TestShellSwingsReadsStoredDeltas(t *testing.T) {
	db, _ := sessionDB(t)

	var buf bytes.Buffer
	require.NoError(t, shellSwings(&buf, db))
	out := buf.String()
	// Forest 1 -> 6, Arsenal 4 -> 0.
	assert.Contains(t, out, "Biggest riser: Forest (+5 points)")
	assert.Contains(t, out, "Biggest faller: Arsenal (-4 points)")
	assert.Contains(t, out, "* riser")
}

func TestShellTableReadsStoredSummary(t *testing.T) {
	db, ds := sessionDB(t)

	var buf bytes.Buffer
	require.NoError(t, shellTable(&buf, db, ds))
	out := buf.String()
	assert.Contains(t, out, "--- "+model.Season1+" ---")
	assert.Contains(t, out, "--- "+model.Season2+" ---")
	assert.Contains(t, out, "Forest")
}

func TestShellMatchesReadsStoredRows(t *testing.T) {
	db, _ := sessionDB(t)

	var buf bytes.Buffer
	require.NoError(t, shellMatches(&buf, db, "Forest"))
	out := buf.String()
	assert.Contains(t, out, "2023-08-12")
	assert.Contains(t, out, "2024-09-14")

	buf.Reset()
	require.NoError(t, shellMatches(&buf, db, "Leeds"))
	assert.Contains(t, buf.String(), report.NoMatchesMessage)
}
