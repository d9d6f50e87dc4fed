package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/rosterlens/internal/domain/model"
)

func categoryParam(r *http.Request) (model.Category, error) {
	c, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return c, nil
}

// intParam reads name from the query string, falling back to def when the
// parameter is absent. Values above limit are rejected when limit > 0.
func intParam(r *http.Request, name string, def, limit int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrBadRequest, name, raw)
	}
	if limit > 0 && n > limit {
		return 0, fmt.Errorf("%w: %s must not exceed %d", ErrLimitExceeded, name, limit)
	}
	return n, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrBadRequest, name, raw)
	}
	return v, nil
}

// listParam accepts both repeated parameters and comma-separated values.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
