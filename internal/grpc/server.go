// Package grpcserver runs the gRPC side listener used by orchestrators to probe
// the service. It serves the standard grpc.health.v1 protocol, backed by a
// periodic database ping.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"employeeManagement/internal/metrics"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "employeemanagement.API"

const (
	probeInterval = 10 * time.Second
	probeTimeout  = 2 * time.Second
)

// Pinger is the slice of *sql.DB the health probe needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps a grpc.Server exposing health and reflection.
type Server struct {
	srv     *grpc.Server
	health  *health.Server
	db      Pinger
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer builds the gRPC server. m may be nil.
func NewServer(db Pinger, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		health:  health.NewServer(),
		db:      db,
		metrics: m,
		logger:  logger.Named("grpc"),
	}
	s.srv = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	// Not serving until the first probe succeeds.
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Probe pings the database once and publishes the result.
func (s *Server) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	err := s.db.PingContext(ctx)
	up := err == nil
	if up {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		s.logger.Warn("database probe failed", zap.Error(err))
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	if s.metrics != nil {
		s.metrics.SetDBUp(up)
	}
	return up
}

func (s *Server) watch(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Probe(ctx)
		}
	}
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("rpc",
		zap.String("method", info.FullMethod),
		zap.String("code", status.Code(err).String()),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, err
}

// Serve probes once, starts the periodic probe and serves lis in the background.
// The returned function stops everything, forcing a hard stop if ctx expires
// before in-flight calls drain.
func (s *Server) Serve(lis net.Listener) func(context.Context) error {
	probeCtx, stopProbe := context.WithCancel(context.Background())
	s.Probe(probeCtx)
	go s.watch(probeCtx, probeInterval)

	go func() {
		if err := s.srv.Serve(lis); err != nil {
			s.logger.Error("grpc server stopped", zap.Error(err))
		}
	}()

	return func(ctx context.Context) error {
		stopProbe()
		s.health.Shutdown()
		done := make(chan struct{})
		go func() { s.srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			s.srv.Stop()
			return ctx.Err()
		}
	}
}

// StartGRPC starts the health server on addr and returns a shutdown function.
func StartGRPC(addr string, db Pinger, m *metrics.Metrics, logger *zap.Logger) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServer(db, m, logger).Serve(lis), nil
}
