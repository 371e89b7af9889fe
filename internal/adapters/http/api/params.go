package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/fplboard/internal/app"
	"github.com/okian/fplboard/internal/domain/metric"
)

// parseQuery reads the shared table parameters.
func parseQuery(v url.Values) (service.Query, error) {
	top, err := intParam(v, "top")
	if err != nil {
		return service.Query{}, err
	}
	bottom, err := intParam(v, "bottom")
	if err != nil {
		return service.Query{}, err
	}
	return service.Query{
		Search:    v.Get("q"),
		Sort:      v.Get("sort"),
		Direction: v.Get("dir"),
		Top:       top,
		Bottom:    bottom,
		Teams:     listParam(v, "teams"),
		Positions: listParam(v, "positions"),
	}, nil
}

func intParam(v url.Values, key string) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, ErrBadRequest)
	}
	return n, nil
}

// floatParam parses a numeric parameter. NaN and infinities read as zero, the
// same as record fields.
func floatParam(v url.Values, key string) (float64, bool, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, ErrBadRequest)
	}
	return metric.Number(f), true, nil
}

// listParam accepts both repeated keys and comma-separated values.
func listParam(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
