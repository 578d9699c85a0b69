package ports

import "time"

// Metrics is what the core reports to the observability layer.
type Metrics interface {
	LoginAttempt(result string)
	GateDenied(reason string)
	StoreError(table, op string)
	UnknownStatus(source string)
	ObserveWidget(widget string, d time.Duration)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) LoginAttempt(string)                  {}
func (NopMetrics) GateDenied(string)                    {}
func (NopMetrics) StoreError(string, string)            {}
func (NopMetrics) UnknownStatus(string)                 {}
func (NopMetrics) ObserveWidget(string, time.Duration) {}
