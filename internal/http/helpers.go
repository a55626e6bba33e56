package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jangbu/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parses the request body into dst, rejecting unknown fields and
// oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// monthParam reads a yearMonth-style query parameter. When the parameter is
// absent and required is false, the current month is used.
func monthParam(r *http.Request, name string, required bool) (core.MonthKey, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return core.MonthKey{}, fmt.Errorf("missing %s parameter", name)
		}
		return core.MonthKeyOf(time.Now()), nil
	}
	month, err := core.ParseMonthKey(raw)
	if err != nil {
		return core.MonthKey{}, fmt.Errorf("invalid %s %q: expected YYYY-MM", name, raw)
	}
	return month, nil
}

func parseDateField(raw string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return date, nil
}
