package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/buildinfo"
	"github.com/matzehuels/timestack/pkg/cache"
	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/observability"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Cache status header values.
const (
	cacheHeader = "X-Cache"
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheShared = "shared"
)

// TicksResponse is the body of /v1/ticks.
type TicksResponse struct {
	Generator string       `json:"generator,omitempty"`
	Index     int          `json:"index"`
	Density   float64      `json:"density"`
	Count     float64      `json:"count"`
	Min       int64        `json:"min"`
	Max       int64        `json:"max"`
	Width     float64      `json:"width"`
	Font      string       `json:"font"`
	Ticks     []ticks.Tick `json:"ticks"`
}

// GeneratorInfo describes one entry of /v1/generators.
type GeneratorInfo struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	SizeMS    float64 `json:"size_ms"`
	HasBottom bool    `json:"has_bottom"`
}

// MeasureResponse is the body of /v1/measure.
type MeasureResponse struct {
	Font   string          `json:"font"`
	Locale string          `json:"locale"`
	Zone   string          `json:"zone"`
	Format calendar.Format `json:"format"`
	Width  float64         `json:"width"`
}

// LabelResponse is the body of /v1/label.
type LabelResponse struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

type errorResponse struct {
	Error     string         `json:"error"`
	Code      apperrors.Code `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	req, err := parseTicksRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.measurer(req.font)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := axis.New(req.options(s.base, s.maxTicks))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	min, max, err := req.bounds(a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := a.Options()
	key := s.keyer.TicksKey(cache.TicksKeyOpts{
		Min:        min,
		Max:        max,
		Width:      req.width,
		Locale:     a.Calendar().Locale().String(),
		Zone:       a.Calendar().Location().String(),
		Font:       m.Font(),
		Density:    opts.Density,
		MaxDensity: opts.MaxDensity,
		MaxTicks:   opts.MaxTicks,
		Axis: fmt.Sprintf("%s|%g|%g|%d", s.axisID, *opts.LeftThreshold, *opts.RightThreshold,
			a.Calendar().FromTime(s.now()).Year()),
	})

	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		res, err := a.Build(ctx, min, max, req.width, m)
		if err != nil {
			return nil, err
		}
		body := TicksResponse{
			Index:   res.Index,
			Density: res.Density,
			Count:   res.Count,
			Min:     res.Min,
			Max:     res.Max,
			Width:   res.Width,
			Font:    m.Font(),
			Ticks:   res.Ticks,
		}
		if res.Generator != nil {
			body.Generator = res.Generator.String()
		}
		if body.Ticks == nil {
			body.Ticks = []ticks.Tick{}
		}
		return json.Marshal(body)
	})
}

func (s *Server) handleGenerators(w http.ResponseWriter, r *http.Request) {
	gens := s.base.Generators
	out := make([]GeneratorInfo, len(gens))
	for i, g := range gens {
		out[i] = GeneratorInfo{
			Index:     i,
			Name:      g.String(),
			SizeMS:    g.Top().Size,
			HasBottom: g.Bottom() != nil,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("format")
	if raw == "" {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "missing parameter format"))
		return
	}
	f, err := ticks.ParseFormat(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.measurer(q.Get("font"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cal, err := s.calendar(q.Get("locale"), q.Get("zone"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := s.keyer.MeasureKey(cache.MeasureKeyOpts{
		Format: f.Key(),
		Locale: cal.Locale().String(),
		Zone:   cal.Location().String(),
		Font:   m.Font(),
	})
	s.serveCached(w, r, key, func(context.Context) ([]byte, error) {
		width, err := s.estimator.MaxWidth(f, m, cal)
		if err != nil {
			return nil, err
		}
		return json.Marshal(MeasureResponse{
			Font:   m.Font(),
			Locale: cal.Locale().String(),
			Zone:   cal.Location().String(),
			Format: f,
			Width:  width,
		})
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("value") == "" {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "missing parameter value"))
		return
	}
	opts := s.base
	if l := q.Get("locale"); l != "" {
		opts.Locale = l
	}
	if z := q.Get("zone"); z != "" {
		opts.Zone = z
	}
	if f := q.Get("format"); f != "" {
		tf, err := ticks.ParseFormat(f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.TooltipFormat = &tf
	}
	a, err := axis.New(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := a.Calendar().ParseInstant(q.Get("value"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LabelResponse{Value: v, Label: a.LabelForValue(v)})
}

// serveCached answers from the cache or from build, collapsing concurrent
// builds of the same key. Cache failures are logged and otherwise ignored.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) ([]byte, error)) {
	ctx := r.Context()
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache read failed", "err", err, "id", RequestIDFrom(ctx))
	} else if ok {
		writeRaw(w, http.StatusOK, cacheHit, data)
		return
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the requests sharing this build.
		data, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(context.WithoutCancel(ctx), key, data, s.ttl); err != nil {
			s.logger.Warn("cache write failed", "err", err, "id", RequestIDFrom(ctx))
		}
		return data, nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := cacheMiss
	if shared {
		status = cacheShared
		observability.Server().OnShared(ctx, r.URL.Path)
	}
	writeRaw(w, http.StatusOK, status, v.([]byte))
}

func (s *Server) calendar(locale, zone string) (*calendar.Calendar, error) {
	if locale == "" {
		locale = s.base.Locale
	}
	if zone == "" {
		zone = s.base.Zone
	}
	return calendar.New(calendar.Options{Locale: locale, Zone: zone})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if apperrors.IsInputError(err) {
		status = http.StatusBadRequest
	}
	id := RequestIDFrom(r.Context())
	if status >= 500 {
		s.logger.Error("request failed", "err", err, "path", r.URL.Path, "id", id)
	}

	msg := apperrors.UserMessage(err)
	var e *apperrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: apperrors.GetCode(err), RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, "", data)
}

func writeRaw(w http.ResponseWriter, status int, cacheStatus string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)+1))
	if cacheStatus != "" {
		w.Header().Set(cacheHeader, cacheStatus)
	}
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}
