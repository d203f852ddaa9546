package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"google.golang.org/grpc/health/grpc_health_v1"

	"scamshield/pkg/logger"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func servingStatus(t *testing.T, m *Monitor, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server().Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q) error = %v", service, err)
	}
	return resp.GetStatus()
}

func TestMonitorTracksModelReadiness(t *testing.T) {
	var ready atomic.Bool
	m := NewMonitor(ready.Load, nil, 0, logger.NewNop())

	m.Check(context.Background())
	if got := servingStatus(t, m, ScannerService); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("scanner status before model load = %v, want NOT_SERVING", got)
	}
	if got := servingStatus(t, m, ""); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("overall status = %v, want SERVING", got)
	}

	ready.Store(true)
	m.Check(context.Background())
	if got := servingStatus(t, m, ScannerService); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("scanner status after model load = %v, want SERVING", got)
	}
}

func TestMonitorDependencyFailure(t *testing.T) {
	var down atomic.Bool
	deps := map[string]Pinger{
		"postgres": pingFunc(func(context.Context) error {
			if down.Load() {
				return errors.New("connection refused")
			}
			return nil
		}),
	}
	m := NewMonitor(func() bool { return true }, deps, 0, logger.NewNop())

	m.Check(context.Background())
	if got := servingStatus(t, m, ""); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("overall status = %v, want SERVING", got)
	}

	down.Store(true)
	m.Check(context.Background())
	for _, svc := range []string{"", ScannerService} {
		if got := servingStatus(t, m, svc); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
			t.Errorf("status(%q) with database down = %v, want NOT_SERVING", svc, got)
		}
	}
}
