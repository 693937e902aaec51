package parser

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/eplswing/internal/model"
)

const sampleCSV = `Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR,Referee,HS,AS,HST,AST,HF,AF,HC,AC,HY,AY,HR,AR
E0,11/08/2023,Burnley,Man City,0,3,A,C Pawson,6,17,1,8,11,8,6,5,0,2,1,0
E0,12/08/23,Arsenal,Nott'm Forest,2,1,H,M Oliver,15,6,7,2,12,12,8,3,2,2,0,0

E0,2023-08-12,Everton,Fulham,0,1,A,S Attwell,19,9,9,2,10,6,10,4,1,1,0,0
`

func TestParseMixedDateFormats(t *testing.T) {
	fixtures, err := Parse(strings.NewReader(sampleCSV), model.Season1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fixtures) != 3 {
		t.Fatalf("expected 3 fixtures (blank line skipped), got %d", len(fixtures))
	}

	want := []time.Time{
		time.Date(2023, 8, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 8, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 8, 12, 0, 0, 0, 0, time.UTC),
	}
	for i, fx := range fixtures {
		if !fx.Date.Equal(want[i]) {
			t.Errorf("fixture %d: date = %s, want %s", i, fx.Date.Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
		if fx.Season != model.Season1 {
			t.Errorf("fixture %d: season = %q", i, fx.Season)
		}
	}

	b := fixtures[0]
	if b.HomeTeam != "Burnley" || b.AwayTeam != "Man City" || b.FTHG != 0 || b.FTAG != 3 || b.FTR != "A" {
		t.Errorf("unexpected first fixture: %+v", b)
	}
	if b.Referee != "C Pawson" {
		t.Errorf("referee = %q", b.Referee)
	}
	if b.AwayStats.Shots != 17 || b.AwayStats.ShotsOnTarget != 8 || b.HomeStats.Red != 1 {
		t.Errorf("unexpected stats: home %+v away %+v", b.HomeStats, b.AwayStats)
	}
}

func TestParseOptionalStatsDefaultToZero(t *testing.T) {
	in := "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n01/09/2024,Spurs,Chelsea,2.0,2,D\n"
	fixtures, err := Parse(strings.NewReader(in), model.Season2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}
	fx := fixtures[0]
	if fx.FTHG != 2 {
		t.Errorf("FTHG = %d, want 2", fx.FTHG)
	}
	if fx.HomeStats != (model.SideStats{}) || fx.Referee != "" {
		t.Errorf("expected zero optional fields, got %+v referee=%q", fx.HomeStats, fx.Referee)
	}
}

func TestParseBOMHeader(t *testing.T) {
	in := "\ufeffDate,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n01/09/2024,Spurs,Chelsea,1,0,H\n"
	if _, err := Parse(strings.NewReader(in), model.Season2); err != nil {
		t.Fatalf("Parse with BOM: %v", err)
	}
}

func TestParseMissingColumn(t *testing.T) {
	in := "Date,HomeTeam,AwayTeam,FTHG,FTAG\n01/09/2024,Spurs,Chelsea,1,0\n"
	_, err := Parse(strings.NewReader(in), model.Season2)
	if err == nil || !strings.Contains(err.Error(), `"FTR"`) {
		t.Fatalf("expected missing FTR column error, got %v", err)
	}
}

func TestParseInvalidGoals(t *testing.T) {
	in := "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n01/09/2024,Spurs,Chelsea,x,0,H\n"
	_, err := Parse(strings.NewReader(in), model.Season2)
	var ve *model.DataValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected DataValidationError, got %v", err)
	}
	if ve.Field != "FTHG" || ve.Line != 1 || ve.Season != model.Season2 {
		t.Errorf("unexpected error detail: %+v", ve)
	}
}

func TestParseInvalidDate(t *testing.T) {
	in := "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n31/31/2024,Spurs,Chelsea,1,0,H\n"
	_, err := Parse(strings.NewReader(in), model.Season2)
	var ve *model.DataValidationError
	if !errors.As(err, &ve) || ve.Field != "Date" {
		t.Fatalf("expected Date validation error, got %v", err)
	}
}

func TestParseEmptyTeam(t *testing.T) {
	in := "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n01/09/2024,,Chelsea,1,0,H\n"
	_, err := Parse(strings.NewReader(in), model.Season2)
	var ve *model.DataValidationError
	if !errors.As(err, &ve) || ve.Field != "team" {
		t.Fatalf("expected team validation error, got %v", err)
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader(""), model.Season1); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"05/01/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"5/1/24", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"05-01-2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{" 2024-01-05 ", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseDate("not a date"); err == nil {
		t.Error("expected error for garbage date")
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseSeasonFileCompressed(t *testing.T) {
	plain := writeFile(t, "season.csv", []byte(sampleCSV))

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	if _, err := gw.Write([]byte(sampleCSV)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	gzPath := writeFile(t, "season.csv.gz", gz.Bytes())

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zstPath := writeFile(t, "season.csv.zst", enc.EncodeAll([]byte(sampleCSV), nil))
	enc.Close()

	base, err := ParseSeasonFile(plain, model.Season1)
	if err != nil {
		t.Fatalf("ParseSeasonFile(csv): %v", err)
	}
	for _, p := range []string{gzPath, zstPath} {
		sf, err := ParseSeasonFile(p, model.Season1)
		if err != nil {
			t.Fatalf("ParseSeasonFile(%s): %v", filepath.Base(p), err)
		}
		if len(sf.Fixtures) != len(base.Fixtures) {
			t.Errorf("%s: %d fixtures, want %d", filepath.Base(p), len(sf.Fixtures), len(base.Fixtures))
		}
		// The hash covers decompressed content, so it matches the plain file.
		if sf.Hash != base.Hash {
			t.Errorf("%s: hash %s differs from plain %s", filepath.Base(p), sf.Hash, base.Hash)
		}
	}
}

func TestParseSeasonFileMissing(t *testing.T) {
	if _, err := ParseSeasonFile(filepath.Join(t.TempDir(), "nope.csv"), model.Season1); err == nil {
		t.Fatal("expected error for missing file")
	}
}
