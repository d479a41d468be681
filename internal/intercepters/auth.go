package intercepters

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
)

// Credential returns the bearer token or API key of the incoming call, or
// an empty string for anonymous calls.
func Credential(md metadata.MD) string {
	if values := md.Get("authorization"); len(values) > 0 {
		scheme, token, found := strings.Cut(values[0], " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if values := md.Get("x-api-key"); len(values) > 0 {
		return strings.TrimSpace(values[0])
	}

	return ""
}

// WithAuth authenticates the call credential and injects the user into the
// context. Calls without a credential continue anonymously.
func WithAuth(auth middleware.Authenticator, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		credential := Credential(md)
		if credential == "" {
			return handler(ctx, req)
		}

		user, err := auth.Authenticate(ctx, credential)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return nil, status.Error(codes.Unauthenticated, strings.Join(service.Messages(err), "; "))
			}

			logger.Error("failed to authenticate call", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(codes.Internal, "internal error")
		}

		return handler(middleware.ContextWithUser(ctx, user), req)
	}
}
