package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Login("ok")
	m.Login("invalid")
	m.Login("invalid")
	m.Lockout()
	m.Export("productos", "xlsx")
	m.TokensCleaned(3, 1)
	done := m.RequestStarted()
	m.ObserveRequest("GET", "/api/products", "200", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lockouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("productos", "xlsx")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cleanedToken.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Login("ok")
		m.Lockout()
		m.Export("x", "pdf")
		m.Movement("entrada")
		m.TokensCleaned(1, 1)
		m.ObserveRequest("GET", "/", "200", 0)
		m.RequestStarted()()
	})
}
