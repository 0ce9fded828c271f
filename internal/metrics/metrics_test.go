package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	assert.NotPanics(t, func() {
		Register(reg)
		Register(reg)
	})
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(PaymentDecisions.WithLabelValues("Approved"))
	PaymentDecisions.WithLabelValues("Approved").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(PaymentDecisions.WithLabelValues("Approved")))
}
