package health

import (
	"context"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServingStatus maps a report status onto the grpc.health.v1 enum
func ServingStatus(s Status) healthpb.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusHealthy, StatusDegraded:
		return healthpb.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

// Publish runs all checks once and stores the outcome on hs for service and
// for the server-wide empty service name
func (r *Registry) Publish(ctx context.Context, hs *grpchealth.Server, service string) *Report {
	report := r.Check(ctx)
	st := ServingStatus(report.Status)
	hs.SetServingStatus(service, st)
	hs.SetServingStatus("", st)
	return report
}

// Monitor republishes the health state every interval until ctx is done
func (r *Registry) Monitor(ctx context.Context, hs *grpchealth.Server, service string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Publish(ctx, hs, service)
		}
	}
}
