package parser

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/eplswing/internal/model"
)

// dateLayouts are tried in order. Day-before-month layouts come first; the
// four-digit year variants must precede the two-digit ones.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2006-01-02",
}

var requiredColumns = []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG", "FTR"}

// SeasonFile is the parsed content of one season file.
type SeasonFile struct {
	Path     string
	Season   string
	Hash     string // sha256 of the decompressed content
	Fixtures []model.RawFixture
}

// ParseSeasonFile reads a season CSV (optionally .gz or .zst compressed),
// labels each row with season and returns the rows with the content hash.
func ParseSeasonFile(path, season string) (*SeasonFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open season file: %w", err)
	}
	defer f.Close()

	src, closeFn, err := decompress(f, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read season file: %w", err)
	}

	fixtures, err := Parse(bytes.NewReader(data), season)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &SeasonFile{
		Path:     path,
		Season:   season,
		Hash:     fmt.Sprintf("%x", sha256.Sum256(data)),
		Fixtures: fixtures,
	}, nil
}

// decompress wraps r in a gzip or zstd reader based on the file suffix.
func decompress(r io.Reader, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	}
	return r, func() {}, nil
}

// Parse decodes season rows from CSV. Columns are looked up by header name;
// the statistic columns are optional and default to zero.
func Parse(r io.Reader, season string) ([]model.RawFixture, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		// Some exports prefix the first column with a UTF-8 BOM.
		cols[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var out []model.RawFixture
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		if blankRecord(rec) {
			continue
		}

		rw := row{rec: rec, cols: cols, season: season, line: line}
		fx := model.RawFixture{
			Line:     line,
			Season:   season,
			HomeTeam: rw.str("HomeTeam"),
			AwayTeam: rw.str("AwayTeam"),
			Referee:  rw.str("Referee"),
			FTR:      rw.str("FTR"),
		}
		if fx.Date, err = rw.date("Date"); err != nil {
			return nil, err
		}
		if fx.FTHG, err = rw.num("FTHG", true); err != nil {
			return nil, err
		}
		if fx.FTAG, err = rw.num("FTAG", true); err != nil {
			return nil, err
		}
		if fx.HomeStats, err = rw.side("HS", "HST", "HF", "HC", "HY", "HR"); err != nil {
			return nil, err
		}
		if fx.AwayStats, err = rw.side("AS", "AST", "AF", "AC", "AY", "AR"); err != nil {
			return nil, err
		}
		if fx.HomeTeam == "" || fx.AwayTeam == "" {
			return nil, &model.DataValidationError{Season: season, Line: line, Field: "team", Value: fx.HomeTeam + " v " + fx.AwayTeam}
		}
		out = append(out, fx)
	}
	return out, nil
}

// ParseDate parses a day-first match date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

type row struct {
	rec    []string
	cols   map[string]int
	season string
	line   int
}

func (r row) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) invalid(col, val string) error {
	return &model.DataValidationError{Season: r.season, Line: r.line, Field: col, Value: val}
}

func (r row) num(col string, required bool) (int, error) {
	s := r.str(col)
	if s == "" {
		if required {
			return 0, r.invalid(col, s)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some exports write counts as "2.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, r.invalid(col, s)
		}
		n = int(f)
	}
	return n, nil
}

func (r row) date(col string) (time.Time, error) {
	t, err := ParseDate(r.str(col))
	if err != nil {
		return time.Time{}, r.invalid(col, r.str(col))
	}
	return t, nil
}

func (r row) side(shots, sot, fouls, corners, yellow, red string) (model.SideStats, error) {
	var s model.SideStats
	var err error
	fields := []struct {
		col string
		dst *int
	}{
		{shots, &s.Shots}, {sot, &s.ShotsOnTarget}, {fouls, &s.Fouls},
		{corners, &s.Corners}, {yellow, &s.Yellow}, {red, &s.Red},
	}
	for _, f := range fields {
		if *f.dst, err = r.num(f.col, false); err != nil {
			return s, err
		}
	}
	return s, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
