package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"scamshield/pkg/logger"
)

// ScannerService is the service name reported for the scoring pipeline
const ScannerService = "scamshield.v1.Scanner"

const (
	defaultInterval = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

// Pinger is a dependency whose connectivity gates readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor keeps the gRPC health service in step with the process state.
// The overall service ("") tracks dependency connectivity; ScannerService
// additionally requires the statistical model to be loaded.
type Monitor struct {
	server     *grpchealth.Server
	modelReady func() bool
	deps       map[string]Pinger
	interval   time.Duration
	logger     *logger.Logger
}

// NewMonitor creates a monitor. deps may be empty.
func NewMonitor(modelReady func() bool, deps map[string]Pinger, interval time.Duration, log *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		server:     grpchealth.NewServer(),
		modelReady: modelReady,
		deps:       deps,
		interval:   interval,
		logger:     log.WithComponent("grpc-health"),
	}
}

// Register attaches the health service to a gRPC server
func (m *Monitor) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, m.server)
}

// Server exposes the underlying health server
func (m *Monitor) Server() *grpchealth.Server {
	return m.server
}

// Check probes every dependency once and updates the serving status
func (m *Monitor) Check(ctx context.Context) {
	depsHealthy := true
	for name, dep := range m.deps {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := dep.Ping(pctx)
		cancel()
		if err != nil {
			depsHealthy = false
			m.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
		}
	}

	scannerServing := depsHealthy && m.modelReady != nil && m.modelReady()

	m.server.SetServingStatus("", status(depsHealthy))
	m.server.SetServingStatus(ScannerService, status(scannerServing))
}

// Run re-checks on every interval until ctx is done, then marks everything
// not serving
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func status(ok bool) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if ok {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_NOT_SERVING
}
