package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, RunDuration)
	assert.NotNil(t, RunRowsTotal)
	assert.NotNil(t, RunUnmatchedRowsTotal)
	assert.NotNil(t, RunInfeasibleRowsTotal)
	assert.NotNil(t, RunErrorsTotal)
	assert.NotNil(t, RunThrottledTotal)
}
