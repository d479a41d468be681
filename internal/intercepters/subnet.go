package intercepters

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

// RealIPKey holds the client address taken from the x-real-ip metadata.
const RealIPKey contextKey = "real-ip"

const realIPHeader = "x-real-ip"

// SubnetIPInterceptor copies the x-real-ip metadata into the context so
// handlers can check it against the trusted subnet.
func SubnetIPInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	if ip := firstValue(ctx, realIPHeader); ip != "" {
		ctx = context.WithValue(ctx, RealIPKey, ip)
	}
	return next(ctx, req)
}

// RealIP returns the client address stored by SubnetIPInterceptor.
func RealIP(ctx context.Context) string {
	ip, _ := ctx.Value(RealIPKey).(string)
	return ip
}

func firstValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get(key)
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}
