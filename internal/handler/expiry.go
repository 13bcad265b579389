package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetdash/backend/internal/expiry"
	"github.com/fleetdash/backend/internal/metrics"
)

// classifier renders expiry results for one request: one evaluation time and
// the locale negotiated from Accept-Language.
type classifier struct {
	labels expiry.Labels
	now    time.Time
}

// classifierFor negotiates the label locale and pins now for the request.
// The chosen locale is echoed in Content-Language.
func (s *Server) classifierFor(w http.ResponseWriter, r *http.Request) classifier {
	tag := expiry.MatchLocale(r.Header.Get("Accept-Language"), s.locale)
	w.Header().Set("Content-Language", tag.String())
	return classifier{labels: expiry.NewLabels(tag), now: s.now()}
}

func (c classifier) classify(t *time.Time) expiry.Result {
	res := c.labels.Classify(expiry.FromDate(t), c.now)
	metrics.ExpiryClassificationsTotal.WithLabelValues(string(res.Status)).Inc()
	return res
}

// toDate converts a stored date into its date-only JSON form.
func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

// fromDate converts a date-only JSON value into a UTC midnight time.
func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	y, m, day := d.Time.Date()
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}
