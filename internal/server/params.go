package server

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/timestack/pkg/axis"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// maxRequestDensity bounds the density parameters of a request. Above 1 the
// labels of a row overlap.
const maxRequestDensity = 1.0

// ticksRequest is a normalized /v1/ticks query. min and max stay raw until
// the request's calendar is known, so wall clock times resolve in its zone.
type ticksRequest struct {
	min, max   string
	width      float64
	locale     string
	zone       string
	font       string
	density    float64
	maxDensity float64
	maxTicks   int
	left       *float64
	right      *float64
}

func parseTicksRequest(q url.Values) (ticksRequest, error) {
	var req ticksRequest
	var err error
	for _, name := range []string{"min", "max", "width"} {
		if q.Get(name) == "" {
			return req, apperrors.New(apperrors.ErrCodeInvalidInput, "missing parameter %s", name)
		}
	}
	req.min, req.max = q.Get("min"), q.Get("max")
	if req.width, err = parseFloat(q, "width"); err != nil {
		return req, err
	}
	if req.density, err = parseFloat(q, "density"); err != nil {
		return req, err
	}
	if req.maxDensity, err = parseFloat(q, "max_density"); err != nil {
		return req, err
	}
	for _, d := range []struct {
		name string
		v    float64
	}{{"density", req.density}, {"max_density", req.maxDensity}} {
		if d.v > maxRequestDensity {
			return req, apperrors.New(apperrors.ErrCodeInvalidInput, "%s must not exceed %g, got %g", d.name, maxRequestDensity, d.v)
		}
	}
	if v := q.Get("max_ticks"); v != "" {
		if req.maxTicks, err = strconv.Atoi(v); err != nil || req.maxTicks < 0 {
			return req, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid max_ticks %q", v)
		}
	}
	if req.left, err = axis.ParseThreshold(q.Get("left_threshold")); err != nil {
		return req, err
	}
	if req.right, err = axis.ParseThreshold(q.Get("right_threshold")); err != nil {
		return req, err
	}
	req.locale, req.zone, req.font = q.Get("locale"), q.Get("zone"), q.Get("font")
	return req, nil
}

// options layers the request over the server defaults and holds the tick
// count to ceiling.
func (r ticksRequest) options(base axis.Options, ceiling int) axis.Options {
	opts := base
	if r.locale != "" {
		opts.Locale = r.locale
	}
	if r.zone != "" {
		opts.Zone = r.zone
	}
	if r.density > 0 {
		opts.Density = r.density
	}
	if r.maxDensity > 0 {
		opts.MaxDensity = r.maxDensity
	}
	if r.maxTicks > 0 {
		opts.MaxTicks = r.maxTicks
	}
	if opts.MaxTicks <= 0 || opts.MaxTicks > ceiling {
		opts.MaxTicks = ceiling
	}
	if r.left != nil {
		opts.LeftThreshold = r.left
	}
	if r.right != nil {
		opts.RightThreshold = r.right
	}
	return opts
}

// bounds resolves min and max in the axis calendar.
func (r ticksRequest) bounds(a *axis.Axis) (min, max int64, err error) {
	if min, err = a.Calendar().ParseInstant(r.min); err != nil {
		return 0, 0, err
	}
	if max, err = a.Calendar().ParseInstant(r.max); err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func parseFloat(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return f, nil
}
