// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/common"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthService is the name the ingest service reports health under, in
// addition to the server-wide "" entry.
const HealthService = "struggle.Ingest"

// HealthWatcher reports changes in backend health.
type HealthWatcher interface {
	Watch(ctx context.Context, interval time.Duration, onChange func(healthy bool))
}

// GRPCServer manages the gRPC server lifecycle. It serves the health and
// reflection services for probes and tooling.
type GRPCServer struct {
	server  *grpc.Server
	health  *health.Server
	port    int
	watcher HealthWatcher
}

// NewGRPCServer creates a new gRPC server instance. watcher may be nil, in
// which case the server always reports serving.
func NewGRPCServer(port int, watcher HealthWatcher) *GRPCServer {
	return &GRPCServer{
		port:    port,
		watcher: watcher,
	}
}

// Setup configures the gRPC server with interceptors and registers services.
func (s *GRPCServer) Setup() error {
	unaryInterceptors := []grpc.UnaryServerInterceptor{
		logging.UnaryServerInterceptor(common.InterceptorLogger(logrus.StandardLogger())),
	}
	streamInterceptors := []grpc.StreamServerInterceptor{
		logging.StreamServerInterceptor(common.InterceptorLogger(logrus.StandardLogger())),
	}

	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
		grpc.ChainStreamInterceptor(streamInterceptors...),
	)

	s.health = health.NewServer()
	s.setServing(true)

	reflection.Register(s.server)
	grpc_health_v1.RegisterHealthServer(s.server, s.health)

	logrus.Infof("gRPC reflection and health check enabled")
	return nil
}

// WatchHealth mirrors backend health into the health service until ctx is done.
func (s *GRPCServer) WatchHealth(ctx context.Context, interval time.Duration) {
	if s.watcher == nil {
		return
	}
	s.watcher.Watch(ctx, interval, s.setServing)
}

func (s *GRPCServer) setServing(healthy bool) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !healthy {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(HealthService, status)
}

// Serve listens on the configured port until Shutdown is called.
func (s *GRPCServer) Serve() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *GRPCServer) ServeListener(lis net.Listener) error {
	logrus.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the gRPC server.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down gRPC server...")
	s.health.Shutdown()
	s.server.GracefulStop()
	logrus.Info("gRPC server stopped")
	return nil
}
