package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/atinyakov/vh7/internal/models"
)

// ServiceName is the full gRPC service name.
const ServiceName = "vh7.ShortLinks"

// ShortLinksServer is the gRPC API of the short link service.
type ShortLinksServer interface {
	Shorten(context.Context, *models.ShortenRequest) (*models.ShortLink, error)
	Paste(context.Context, *models.PasteRequest) (*models.ShortLink, error)
	Upload(context.Context, *models.UploadRequest) (*models.ShortLink, error)
	Info(context.Context, *models.InfoRequest) (*models.ShortLink, error)
	UserLinks(context.Context, *models.UserLinksRequest) (*models.LinksResponse, error)
	RunCleanup(context.Context, *models.CleanupRequest) (*models.CleanupResponse, error)
}

func unaryHandler[Req, Resp any](method string, call func(ShortLinksServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return call(srv.(ShortLinksServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ShortLinksServer), ctx, req.(*Req))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

// ShortLinksServiceDesc describes ShortLinksServer for grpc.Server.RegisterService.
var ShortLinksServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortLinksServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Shorten", ShortLinksServer.Shorten),
		unaryHandler("Paste", ShortLinksServer.Paste),
		unaryHandler("Upload", ShortLinksServer.Upload),
		unaryHandler("Info", ShortLinksServer.Info),
		unaryHandler("UserLinks", ShortLinksServer.UserLinks),
		unaryHandler("RunCleanup", ShortLinksServer.RunCleanup),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vh7",
}

// RegisterShortLinksServer registers srv on s.
func RegisterShortLinksServer(s grpc.ServiceRegistrar, srv ShortLinksServer) {
	s.RegisterService(&ShortLinksServiceDesc, srv)
}

// Client calls a ShortLinks server.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a client that talks JSON over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Shorten(ctx context.Context, in *models.ShortenRequest, opts ...grpc.CallOption) (*models.ShortLink, error) {
	return invoke[models.ShortLink](ctx, c, "Shorten", in, opts)
}

func (c *Client) Paste(ctx context.Context, in *models.PasteRequest, opts ...grpc.CallOption) (*models.ShortLink, error) {
	return invoke[models.ShortLink](ctx, c, "Paste", in, opts)
}

func (c *Client) Upload(ctx context.Context, in *models.UploadRequest, opts ...grpc.CallOption) (*models.ShortLink, error) {
	return invoke[models.ShortLink](ctx, c, "Upload", in, opts)
}

func (c *Client) Info(ctx context.Context, in *models.InfoRequest, opts ...grpc.CallOption) (*models.ShortLink, error) {
	return invoke[models.ShortLink](ctx, c, "Info", in, opts)
}

func (c *Client) UserLinks(ctx context.Context, in *models.UserLinksRequest, opts ...grpc.CallOption) (*models.LinksResponse, error) {
	return invoke[models.LinksResponse](ctx, c, "UserLinks", in, opts)
}

func (c *Client) RunCleanup(ctx context.Context, in *models.CleanupRequest, opts ...grpc.CallOption) (*models.CleanupResponse, error) {
	return invoke[models.CleanupResponse](ctx, c, "RunCleanup", in, opts)
}
