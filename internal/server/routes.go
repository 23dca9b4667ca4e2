package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render"
)

// Handler returns the HTTP routes.
//
//	GET  /                  standalone HTML page
//	GET  /treemap.svg       chart
//	GET  /legend.svg        legend
//	GET  /api/scene         scene as JSON
//	GET  /api/legend        per-category totals
//	GET  /api/tiles/{id}    one tile, with tooltip state for ?x=&y=
//	POST /api/reload        refetch the dataset
//	GET  /healthz           liveness and current run
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSnapshot)
		r.Get("/", s.handleArtifact(pipeline.FormatHTML, "text/html; charset=utf-8"))
		r.Get("/treemap.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
		r.Get("/legend.svg", s.handleLegendSVG)
		r.Route("/api", func(r chi.Router) {
			r.Get("/scene", s.handleArtifact(pipeline.FormatJSON, "application/json"))
			r.Get("/legend", s.handleLegend)
			r.Get("/tiles/*", s.handleTile)
			r.Post("/reload", s.handleReload)
		})
	})
	return r
}

func (s *Server) requireSnapshot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loaded() == nil {
			writeErrorStatus(w, http.StatusServiceUnavailable, apperr.New(apperr.ErrCodeInternal, "dataset not loaded yet"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.loaded()
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", strconv.Quote(snap.result.RunID))
		_, _ = w.Write(snap.result.Artifacts[format])
	}
}

func (s *Server) handleLegendSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(s.loaded().legend)
}

type legendResponse struct {
	RunID      string                 `json:"run_id"`
	Categories []render.CategoryTotal `json:"categories"`
	Total      float64                `json:"total"`
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	res := s.loaded().result
	writeJSON(w, http.StatusOK, legendResponse{
		RunID:      res.RunID,
		Categories: res.Scene.Totals(),
		Total:      res.Stats.Total,
	})
}

type tileResponse struct {
	Tile    render.Tile    `json:"tile"`
	Tooltip render.Tooltip `json:"tooltip"`
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carried escapes that Path
	// cannot represent (such as %2F); only then is the parameter still encoded.
	id := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		var err error
		if id, err = url.PathUnescape(id); err != nil {
			writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "bad tile id"))
			return
		}
	}
	tile, ok := s.loaded().result.Scene.Tile(id)
	if !ok {
		writeError(w, apperr.New(apperr.ErrCodeNotFound, "no tile %q", id))
		return
	}

	x, _ := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, _ := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	writeJSON(w, http.StatusOK, tileResponse{Tile: tile, Tooltip: render.ShowTooltip(tile, x, y)})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleHealth(w, r)
}

type healthResponse struct {
	Status   string    `json:"status"`
	RunID    string    `json:"run_id,omitempty"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Reloads  int64     `json:"reloads"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "starting", Reloads: s.reloads.Load()}
	if snap := s.loaded(); snap != nil {
		resp.Status = "ok"
		resp.RunID = snap.result.RunID
		resp.Source = snap.result.Source
		resp.LoadedAt = snap.loadedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorBody struct {
	Error struct {
		Code    apperr.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, apperr.HTTPStatus(err), err)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = apperr.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = apperr.ErrCodeInternal
	}
	body.Error.Message = apperr.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
