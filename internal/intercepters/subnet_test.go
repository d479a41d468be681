package intercepters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestSubnetIPInterceptor(t *testing.T) {
	withIP := func(ip string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", ip))
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/vh7.ShortLinks/RunCleanup"}

	cases := map[string]struct {
		ctx  context.Context
		want string
	}{
		"address is stored":   {withIP("192.168.1.100"), "192.168.1.100"},
		"spaces are trimmed":  {withIP(" 10.0.0.7 "), "10.0.0.7"},
		"blank value ignored": {withIP(""), ""},
		"no metadata":         {context.Background(), ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var seen string
			_, err := SubnetIPInterceptor(tc.ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
				seen = RealIP(ctx)
				return nil, nil
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, seen)
		})
	}
}
