package instrument

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTPMetrics counts code requests, throttle decisions and verification
// outcomes.
type OTPMetrics struct {
	requests      metric.Int64Counter
	throttled     metric.Int64Counter
	verifications metric.Int64Counter
}

// NewOTPMetrics registers the counters on the "otp" meter.
func NewOTPMetrics(ins Instrumentation) (*OTPMetrics, error) {
	meter := ins.Meter("otp")

	requests, err := meter.Int64Counter("otp.requests",
		metric.WithDescription("Codes issued"))
	if err != nil {
		return nil, err
	}

	throttled, err := meter.Int64Counter("otp.throttled",
		metric.WithDescription("Code requests refused by the throttle"))
	if err != nil {
		return nil, err
	}

	verifications, err := meter.Int64Counter("otp.verifications",
		metric.WithDescription("Verification attempts by outcome"))
	if err != nil {
		return nil, err
	}

	return &OTPMetrics{requests: requests, throttled: throttled, verifications: verifications}, nil
}

func (m *OTPMetrics) Issued(ctx context.Context) {
	m.requests.Add(ctx, 1)
}

func (m *OTPMetrics) Throttled(ctx context.Context) {
	m.throttled.Add(ctx, 1)
}

// Verified records one verification attempt. outcome is "consumed" or the
// rejection reason.
func (m *OTPMetrics) Verified(ctx context.Context, outcome string) {
	m.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
