// Package api serves the derived tables and insights as read-only JSON for a
// charting front end.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/parser"
)

// Source yields the current dataset. dataset.Loader satisfies it through LoaderSource.
type Source interface {
	Dataset() (*dataset.Dataset, error)
}

// LoaderSource adapts a Loader and fixed file paths to Source.
type LoaderSource struct {
	Loader  *dataset.Loader
	Sources dataset.Sources
}

// Dataset returns the session dataset for the configured files. The files
// are read on the first call only.
func (s LoaderSource) Dataset() (*dataset.Dataset, error) {
	return s.Loader.Session(s.Sources)
}

// StaticSource always returns the same dataset.
type StaticSource struct{ DS *dataset.Dataset }

// Dataset returns the wrapped dataset.
func (s StaticSource) Dataset() (*dataset.Dataset, error) { return s.DS, nil }

// Server holds the HTTP handlers.
type Server struct {
	src Source
	log *zap.Logger
}

// NewServer returns a Server reading from src.
func NewServer(src Source, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{src: src, log: log}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/matches", s.withDataset(s.handleMatches)).Methods(http.MethodGet)
	a.HandleFunc("/team-matches", s.withDataset(s.handleTeamMatches)).Methods(http.MethodGet)
	a.HandleFunc("/summary", s.withDataset(s.handleSummary)).Methods(http.MethodGet)
	a.HandleFunc("/home-away", s.withDataset(s.handleHomeAway)).Methods(http.MethodGet)
	a.HandleFunc("/deltas", s.withDataset(s.handleDeltas)).Methods(http.MethodGet)
	a.HandleFunc("/teams", s.withDataset(s.handleTeams)).Methods(http.MethodGet)
	a.HandleFunc("/teams/{team}/story", s.withDataset(s.handleStory)).Methods(http.MethodGet)
	return r
}

type dsHandler func(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset)

func (s *Server) withDataset(h dsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := s.src.Dataset()
		if err != nil {
			s.log.Error("load dataset", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "dataset unavailable")
			return
		}
		h(w, r, ds)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) {
	season := r.URL.Query().Get("season")
	if season == "" {
		writeJSON(w, http.StatusOK, ds.Matches)
		return
	}
	out := []model.Match{}
	for _, m := range ds.Matches {
		if m.Season == season {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTeamMatches(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows := ds.Filter(f)
	if rows == nil {
		rows = []model.TeamMatch{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, ds *dataset.Dataset) {
	writeJSON(w, http.StatusOK, ds.Summary)
}

func (s *Server) handleHomeAway(w http.ResponseWriter, _ *http.Request, ds *dataset.Dataset) {
	writeJSON(w, http.StatusOK, ds.HomeAway)
}

func (s *Server) handleDeltas(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) {
	if r.URL.Query().Get("ranked") == "true" {
		writeJSON(w, http.StatusOK, ds.Ranked())
		return
	}
	writeJSON(w, http.StatusOK, ds.Deltas)
}

func (s *Server) handleTeams(w http.ResponseWriter, _ *http.Request, ds *dataset.Dataset) {
	teams := ds.Teams()
	if teams == nil {
		teams = []string{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) {
	team := mux.Vars(r)["team"]
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := ds.Story(team, f)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team %q", team))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ParseFilter reads team, season, venue, gf_min, gf_max, ga_min, ga_max, from
// and to query parameters. Reversed min/max bounds are swapped, matching how
// a brush can be dragged in either direction.
func ParseFilter(q url.Values) (dataset.Filter, error) {
	f := dataset.Filter{
		Team:   q.Get("team"),
		Season: q.Get("season"),
	}
	if v := q.Get("venue"); v != "" {
		f.Venue = model.ParseVenue(v)
		if f.Venue == model.VenueUnknown {
			return f, fmt.Errorf("invalid venue %q", v)
		}
	}
	var err error
	if f.GF, err = parseRange(q, "gf_min", "gf_max"); err != nil {
		return f, err
	}
	if f.GA, err = parseRange(q, "ga_min", "ga_max"); err != nil {
		return f, err
	}
	if v := q.Get("from"); v != "" {
		if f.From, err = parser.ParseDate(v); err != nil {
			return f, fmt.Errorf("invalid from: %w", err)
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = parser.ParseDate(v); err != nil {
			return f, fmt.Errorf("invalid to: %w", err)
		}
	}
	return f, nil
}

func parseRange(q url.Values, minKey, maxKey string) (dataset.Range, error) {
	var rg dataset.Range
	for _, p := range []struct {
		key string
		dst **int
	}{{minKey, &rg.Min}, {maxKey, &rg.Max}} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return rg, fmt.Errorf("invalid %s %q", p.key, s)
		}
		*p.dst = &n
	}
	if rg.Min != nil && rg.Max != nil && *rg.Min > *rg.Max {
		rg.Min, rg.Max = rg.Max, rg.Min
	}
	return rg, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
