package server

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the checkout service reports under in the gRPC
// health protocol, next to the overall "" entry.
const ServiceName = "checkout.Upsale"

// HealthServer exposes grpc.health.v1 so orchestrators can probe the
// process without going through the HTTP surface.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	logger zerolog.Logger
}

func NewHealthServer(logger zerolog.Logger) *HealthServer {
	s := &HealthServer{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		logger: logger.With().Str("component", "grpc").Logger(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.SetServing(false)
	return s
}

func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve blocks until the listener fails or Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("grpc health server listening")
	return s.grpc.Serve(lis)
}

func (s *HealthServer) Stop() {
	s.SetServing(false)
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
