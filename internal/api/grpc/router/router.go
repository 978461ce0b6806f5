package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-service/internal/api/grpc/handler"
	"github.com/dtroode/auth-service/internal/api/grpc/middleware"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

// Router builds the gRPC server exposing the token gate to sibling services.
type Router struct {
	authenticator  middleware.Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authenticator:  authenticator,
		contextManager: contextManager,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// requiresAuth reports whether the call must carry a valid access token.
// Health checks and reflection stay open.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	method := c.FullMethod()
	return !strings.HasPrefix(method, "/grpc.health.v1.Health/") &&
		!strings.HasPrefix(method, "/grpc.reflection.")
}

// Register registers all gRPC services and interceptors.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(r.handlePanic)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	handler.RegisterGateServer(s, handler.NewGate(r.contextManager, r.logger))

	healthpb.RegisterHealthServer(s, r.health)
	r.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	r.health.SetServingStatus(handler.GateServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(s)

	return s
}

// Shutdown marks every service as not serving so health checks drain traffic.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) handlePanic(p any) error {
	r.logger.Error("gRPC handler panicked", "panic", p)
	return status.Error(codes.Internal, "internal server error")
}
