package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

const (
	healthService   = "dnd-mcp.Storage"
	healthCheckKey  = "health:check"
	healthInterval  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// adminServer is the optional gRPC listener for health checks and reflection
type adminServer struct {
	srv    *grpc.Server
	health *health.Server
	cancel context.CancelFunc
}

func startAdmin(ctx context.Context, port int, store storage.Store) (*adminServer, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.Unavailablef("failed to listen on admin port %d: %v", port, err)
	}

	logger := interceptorLogger(slog.Default())
	recovery := grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		slog.ErrorContext(ctx, "Admin handler panicked", "panic", p)
		return errors.ToGRPCError(errors.Internalf("panic: %v", p))
	})

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(recovery),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(recovery),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	reflection.Register(srv)

	checkCtx, cancel := context.WithCancel(ctx)
	a := &adminServer{srv: srv, health: healthServer, cancel: cancel}
	a.checkStore(checkCtx, store)
	go a.watch(checkCtx, store)

	go func() {
		slog.Info("Admin gRPC listener starting", "port", port)
		if err := srv.Serve(lis); err != nil {
			slog.Error("Admin gRPC listener stopped", "error", err)
		}
	}()

	return a, nil
}

func (a *adminServer) watch(ctx context.Context, store storage.Store) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.checkStore(ctx, store)
		}
	}
}

// checkStore reports NOT_SERVING while the store cannot answer a read
func (a *adminServer) checkStore(ctx context.Context, store storage.Store) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if _, err := store.Exists(ctx, healthCheckKey); err != nil {
		slog.WarnContext(ctx, "Storage health check failed", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	a.health.SetServingStatus("", status)
	a.health.SetServingStatus(healthService, status)
}

func (a *adminServer) Stop() {
	a.cancel()
	a.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		a.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		slog.Warn("Admin graceful stop timed out, forcing stop")
		a.srv.Stop()
	}
}

// interceptorLogger adapts slog to the middleware logger
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
