package httpapi

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"rmdesk.org/internal/obs"
)

// GRPCHealthServer exposes readiness over the standard gRPC health
// protocol for load balancers that probe gRPC rather than HTTP.
type GRPCHealthServer struct {
	server *grpc.Server
	health *health.Server
	probe  ReadyProbe
}

// NewGRPCHealthServer creates the health service wrapper.
func NewGRPCHealthServer(probe ReadyProbe) *GRPCHealthServer {
	s := &GRPCHealthServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
		probe:  probe,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

// Serve listens on addr and keeps the reported status in step with the
// readiness probe until ctx is cancelled.
func (s *GRPCHealthServer) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			s.refresh(ctx)
			select {
			case <-ctx.Done():
				s.server.GracefulStop()
				return
			case <-ticker.C:
			}
		}
	}()

	return s.server.Serve(lis)
}

func (s *GRPCHealthServer) refresh(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.probe.Check(checkCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		obs.SetReady(false)
	} else {
		obs.SetReady(true)
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(serviceName, status)
}
