package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside the
// overall ("") status.
const ServiceName = "aigateway"

func (s *Server) setGRPCStatus(ready bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.grpcHealth.SetServingStatus("", st)
	s.grpcHealth.SetServingStatus(ServiceName, st)
}

// ListenAndServeGRPC serves grpc.health.v1.Health on the configured port.
// It returns immediately when the gRPC port is zero.
func (s *Server) ListenAndServeGRPC(ctx context.Context) error {
	if s.grpcPort == 0 {
		return nil
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.grpcPort))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	slog.Info("grpc health server listening", "port", s.grpcPort)
	return s.ServeGRPC(ctx, lis)
}

// ServeGRPC serves the gRPC health service on lis until ctx is cancelled.
func (s *Server) ServeGRPC(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.grpcHealth)

	go func() {
		<-ctx.Done()
		slog.Info("grpc health server shutting down")
		// Flip every service to NOT_SERVING so watchers see the drain.
		s.grpcHealth.Shutdown()
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc health serve: %w", err)
	}
	return nil
}
