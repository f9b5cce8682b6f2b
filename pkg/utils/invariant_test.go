package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaiseInvariant(t *testing.T) {
	invariantsMetric.Reset() // Reset the metric to ensure a clean state for the test.

	prevTestMode := IsTestMode
	IsTestMode = true
	t.Cleanup(func() { IsTestMode = prevTestMode })

	assert.PanicsWithValue(t, "invariant violated: test_violation", func() {
		RaiseInvariant("list", "test_violation", "This is a test invariant violation.")
	})
	assert.Equal(t, 1, GetMetricValue("list" /*module*/, "test_violation" /*invariantType*/))
}

func TestGetMetricValue_Unrecorded(t *testing.T) {
	invariantsMetric.Reset()
	assert.Equal(t, 0, GetMetricValue("list", "never_raised"))
}
