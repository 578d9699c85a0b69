package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.LoginAttempt("success")
	c.LoginAttempt("rejected")
	c.LoginAttempt("rejected")
	c.GateDenied("forbidden")
	c.StoreError("Project", "select")
	c.UnknownStatus("status_breakdown")

	if got := testutil.ToFloat64(c.loginAttempts.WithLabelValues("rejected")); got != 2 {
		t.Errorf("rejected logins = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.loginAttempts.WithLabelValues("success")); got != 1 {
		t.Errorf("successful logins = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.gateDenials.WithLabelValues("forbidden")); got != 1 {
		t.Errorf("gate denials = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.storeErrors.WithLabelValues("Project", "select")); got != 1 {
		t.Errorf("store errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.unknownStatus.WithLabelValues("status_breakdown")); got != 1 {
		t.Errorf("unknown statuses = %v, want 1", got)
	}
}

func TestCollector_WidgetHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveWidget("overview", 20*time.Millisecond)
	c.ObserveWidget("overview", 30*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "dashboard_widget_duration_seconds" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 2 {
			t.Errorf("sample count = %d, want 2", h.GetSampleCount())
		}
	}
	if !found {
		t.Error("dashboard_widget_duration_seconds not registered")
	}
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected MustRegister to panic on a second collector")
		}
	}()
	NewCollector(reg)
}
