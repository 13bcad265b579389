package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/fleetdash/backend/internal/metrics"
)

func TestExpiryClassificationsTotal_CountsPerStatus(t *testing.T) {
	before := testutil.ToFloat64(metrics.ExpiryClassificationsTotal.WithLabelValues("critical"))

	metrics.ExpiryClassificationsTotal.WithLabelValues("critical").Inc()
	metrics.ExpiryClassificationsTotal.WithLabelValues("critical").Inc()

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.ExpiryClassificationsTotal.WithLabelValues("critical")))
}

func TestCollectorsAreLintClean(t *testing.T) {
	problems, err := testutil.CollectAndLint(metrics.TripCodesGeneratedTotal)
	assert.NoError(t, err)
	assert.Empty(t, problems)
}
