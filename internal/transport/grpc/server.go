package grpc_server

import (
	"context"
	"time"

	"coursestream/internal/application/usecase"
	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName  = "coursestream.v1.CertificateService"
	verifyMethod = "/" + ServiceName + "/Verify"
)

// CertificateServiceServer verifies certificate codes for external parties.
// Requests carry the code as a StringValue; responses are a Struct so no
// generated code is needed on either side.
type CertificateServiceServer interface {
	Verify(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var CertificateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CertificateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Verify",
			Handler:    verifyHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func verifyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CertificateServiceServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: verifyMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CertificateServiceServer).Verify(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type CertificateServer struct {
	useCase *usecase.CertificateUseCase
	log     *logger.Logger
}

func NewCertificateServer(uc *usecase.CertificateUseCase, l *logger.Logger) *CertificateServer {
	return &CertificateServer{useCase: uc, log: l}
}

func (s *CertificateServer) Verify(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	cert, err := s.useCase.Verify(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, domain.ErrCertificateNotFound) {
			return nil, status.Error(codes.NotFound, "certificate not found")
		}
		s.log.Error("certificate verification failed", err)
		return nil, status.Error(codes.Internal, "failed to verify certificate")
	}

	fields := map[string]interface{}{
		"valid":            true,
		"code":             cert.Code,
		"user_id":          cert.UserID.String(),
		"course_id":        cert.CourseID,
		"issued_at":        cert.IssuedAt.UTC().Format(time.RFC3339),
		"average_score":    cert.AverageScore,
		"videos_completed": cert.VideosCompleted,
		"total_videos":     cert.TotalVideos,
		"quizzes_passed":   cert.QuizzesPassed,
		"total_quizzes":    cert.TotalQuizzes,
	}
	if cert.Course != nil {
		fields["course_title"] = cert.Course.Title
	}

	res, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return res, nil
}

func loggingInterceptor(l *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		res, err := handler(ctx, req)
		if err != nil {
			l.Warn("grpc call failed", "method", info.FullMethod, "code", status.Code(err), "took", time.Since(start))
		} else {
			l.Debug("grpc call", "method", info.FullMethod, "took", time.Since(start))
		}
		return res, err
	}
}

// NewServer builds the gRPC server with the certificate service, the standard
// health service and reflection. The service has no registered descriptor, so
// reflection lists it but cannot describe it.
func NewServer(certServer *CertificateServer, l *logger.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(l)))
	grpcServer.RegisterService(&CertificateService_ServiceDesc, certServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	return grpcServer, healthServer
}
