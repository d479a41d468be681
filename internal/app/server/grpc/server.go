// Package grpc exposes the short link operations over gRPC with a JSON codec.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/intercepters"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	port       int
	logger     *zap.Logger
}

// Config holds what the gRPC API needs besides the services.
type Config struct {
	BaseURL       string
	TrustedSubnet middleware.Subnet
	MaxUpload     int64
	Port          int
}

// New creates a new gRPC server instance.
func New(cfg Config, links service.LinkServiceIface, auth middleware.Authenticator, logger *zap.Logger) *Server {
	s := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMessageSize(cfg.MaxUpload)),
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
			intercepters.SubnetIPInterceptor,
			intercepters.WithAuth(auth, logger),
		),
	)

	RegisterShortLinksServer(s, &ShortenerServer{
		Service:       links,
		BaseURL:       cfg.BaseURL,
		TrustedSubnet: cfg.TrustedSubnet,
		Logger:        logger,
	})

	return &Server{
		grpcServer: s,
		port:       cfg.Port,
		logger:     logger,
	}
}

// maxMessageSize leaves room for the base64 encoding of an upload.
func maxMessageSize(maxUpload int64) int {
	size := maxUpload/3*4 + 1<<20
	if size < 4<<20 {
		return 4 << 20
	}
	return int(size)
}

// Start runs the gRPC server.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.Error(err))
		return err
	}

	return s.Serve(lis)
}

// Serve accepts connections on lis until GracefulStop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("address", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// --- Implementation of the gRPC interface ---

// ShortenerServer implements ShortLinksServer on top of the link service.
type ShortenerServer struct {
	Service       service.LinkServiceIface
	BaseURL       string
	TrustedSubnet middleware.Subnet
	Logger        *zap.Logger
}

var _ ShortLinksServer = (*ShortenerServer)(nil)

func owner(ctx context.Context, bucketID *int64) service.Owner {
	return service.Owner{User: middleware.UserFrom(ctx), BucketID: bucketID}
}

// Shorten creates or reuses a URL short link.
func (s *ShortenerServer) Shorten(ctx context.Context, req *models.ShortenRequest) (*models.ShortLink, error) {
	sl, _, err := s.Service.Shorten(ctx, req.URL, owner(ctx, req.BucketID))
	if err != nil {
		return nil, s.statusError(err)
	}

	resp := models.NewShortLink(sl, s.BaseURL)
	return &resp, nil
}

// Paste creates or reuses a paste short link.
func (s *ShortenerServer) Paste(ctx context.Context, req *models.PasteRequest) (*models.ShortLink, error) {
	sl, _, err := s.Service.Paste(ctx, req.Code, req.Language, owner(ctx, req.BucketID))
	if err != nil {
		return nil, s.statusError(err)
	}

	resp := models.NewShortLink(sl, s.BaseURL)
	return &resp, nil
}

// Upload stores a file sent inline in the request.
func (s *ShortenerServer) Upload(ctx context.Context, req *models.UploadRequest) (*models.ShortLink, error) {
	if len(req.Data) == 0 {
		return nil, status.Error(codes.InvalidArgument, "A file is required")
	}

	in := service.UploadInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Data,
	}

	sl, _, err := s.Service.Upload(ctx, in, owner(ctx, req.BucketID))
	if err != nil {
		return nil, s.statusError(err)
	}

	resp := models.NewShortLink(sl, s.BaseURL)
	return &resp, nil
}

// Info returns a live short link.
func (s *ShortenerServer) Info(ctx context.Context, req *models.InfoRequest) (*models.ShortLink, error) {
	sl, err := s.Service.Resolve(ctx, req.Link)
	if err != nil {
		return nil, s.statusError(err)
	}

	resp := models.NewShortLink(sl, s.BaseURL)
	return &resp, nil
}

// UserLinks lists the links of the authenticated caller.
func (s *ShortenerServer) UserLinks(ctx context.Context, _ *models.UserLinksRequest) (*models.LinksResponse, error) {
	user := middleware.UserFrom(ctx)
	if user == nil {
		return nil, status.Error(codes.Unauthenticated, "Authentication is required")
	}

	links, err := s.Service.UserLinks(ctx, user.ID)
	if err != nil {
		return nil, s.statusError(err)
	}

	return &models.LinksResponse{Links: models.NewShortLinks(links, s.BaseURL)}, nil
}

// RunCleanup expires uploads now. Only callers from the trusted subnet may
// use it.
func (s *ShortenerServer) RunCleanup(ctx context.Context, _ *models.CleanupRequest) (*models.CleanupResponse, error) {
	ip := intercepters.RealIP(ctx)
	if ip == "" {
		return nil, status.Error(codes.PermissionDenied, "X-Real-IP header missing")
	}
	if !s.TrustedSubnet.Contains(ip) {
		return nil, status.Error(codes.PermissionDenied, "Request is not from a trusted subnet")
	}

	removed, err := s.Service.Cleanup(ctx)
	if err != nil && removed == 0 {
		return nil, s.statusError(err)
	}
	if err != nil {
		s.logger().Warn("cleanup finished with errors", zap.Int("removed", removed), zap.Error(err))
	}

	return &models.CleanupResponse{Removed: removed}, nil
}

func (s *ShortenerServer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// statusError maps the service error taxonomy onto gRPC status codes.
func (s *ShortenerServer) statusError(err error) error {
	var code codes.Code

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrTooLarge):
		code = codes.ResourceExhausted
	case errors.Is(err, service.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, service.ErrUnauthorized):
		code = codes.Unauthenticated
	default:
		s.logger().Error("gRPC call failed", zap.Error(err))
		return status.Error(codes.Internal, "Internal Server Error")
	}

	return status.Error(code, strings.Join(service.Messages(err), "; "))
}
