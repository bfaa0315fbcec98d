package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stargen/pkg/buildinfo"
	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/render/starmap"
	"github.com/matzehuels/stargen/pkg/store"
)

// maxBodyBytes bounds request bodies; generation options are small.
const maxBodyBytes = 64 << 10

type createResponse struct {
	store.Record
	Stats      galaxy.Stats `json:"stats"`
	CacheHit   bool         `json:"cache_hit"`
	DurationMS int64        `json:"duration_ms"`
}

type listResponse struct {
	Galaxies []store.Record `json:"galaxies"`
}

type errorResponse struct {
	Code    serrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) createGalaxy(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid request body"))
		return
	}
	opts.MaxAttempts = s.attempts(opts.MaxAttempts)
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), res.Galaxy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("galaxy created", "id", rec.ID, "seed", rec.Seed, "systems", rec.Systems, "cached", res.CacheHit)

	w.Header().Set("Location", "/v1/galaxies/"+rec.ID)
	writeJSON(w, http.StatusCreated, createResponse{
		Record:     rec,
		Stats:      res.Stats,
		CacheHit:   res.CacheHit,
		DurationMS: res.Duration.Milliseconds(),
	})
}

func (s *Server) listGalaxies(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, serrors.New(serrors.ErrCodeInvalidOptions, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Galaxies: recs})
}

func (s *Server) getGalaxy(w http.ResponseWriter, r *http.Request) {
	g, rec, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Last-Modified", rec.CreatedAt.Format(http.TimeFormat))
	if err := galaxyio.WriteJSON(g, w); err != nil {
		s.logger.Warn("write galaxy", "id", rec.ID, "err", err)
	}
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	g, rec, ok := s.load(w, r)
	if !ok {
		return
	}
	labels, _ := strconv.ParseBool(r.URL.Query().Get("labels"))
	svg, err := starmap.SVG(g, starmap.Options{Labels: labels})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Last-Modified", rec.CreatedAt.Format(http.TimeFormat))
	_, _ = w.Write(svg)
}

func (s *Server) deleteGalaxy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := serrors.ValidateGalaxyID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load fetches the galaxy named by the {id} URL parameter, writing the
// error response itself when it fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*galaxy.Galaxy, store.Record, bool) {
	id := chi.URLParam(r, "id")
	if err := serrors.ValidateGalaxyID(id); err != nil {
		writeError(w, err)
		return nil, store.Record{}, false
	}
	g, rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, store.Record{}, false
	}
	return g, rec, true
}

// fail logs server-side errors and writes the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if serrors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

// attempts clamps a requested attempt budget to the server cap. Zero and
// unbounded requests get the cap.
func (s *Server) attempts(requested int) int {
	if requested <= 0 || requested > s.cfg.MaxAttempts {
		return s.cfg.MaxAttempts
	}
	return requested
}

func writeError(w http.ResponseWriter, err error) {
	code := serrors.GetCode(err)
	msg := serrors.UserMessage(err)
	if code == "" {
		code = serrors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, serrors.HTTPStatus(err), errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
