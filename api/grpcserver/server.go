package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"lexicon/logger"
	"lexicon/service"
)

// Server adapts DictionaryService to gRPC.
type Server struct {
	svc *service.DictionaryService
}

func NewServer(svc *service.DictionaryService) *Server {
	return &Server{svc: svc}
}

func (s *Server) AddWord(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	seq, err := s.svc.AddWord(req.GetValue())
	switch {
	case errors.Is(err, service.ErrNotQueued):
		// the word is journaled; a retry would store it twice
		return wrapperspb.UInt64(seq), nil
	case errors.Is(err, service.ErrEmptyWord):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.UInt64(seq), nil
}

func (s *Server) CheckWord(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	v := s.svc.CheckWord(req.GetValue())
	return structpb.NewStruct(map[string]any{
		"word":           v.Word,
		"found":          v.Found,
		"suggestion":     v.Suggestion,
		"has_suggestion": v.HasSuggestion,
		"compares":       v.Compares,
	})
}

func (s *Server) Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	st := s.svc.Stats()
	return structpb.NewStruct(map[string]any{
		"words":        st.Words,
		"height":       st.Height,
		"height_bound": st.HeightBound,
	})
}

// ListWords streams the dictionary in ascending order.
func (s *Server) ListWords(_ *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.StringValue]) error {
	for _, w := range s.svc.Words() {
		if err := stream.Send(wrapperspb.String(w)); err != nil {
			return err
		}
	}
	return nil
}

// LoggingInterceptor logs every unary call with its outcome and duration.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	log = log.With(logger.Module("grpc"))
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("took", time.Since(start)),
		}
		if err != nil {
			log.Warn("call failed", append(attrs, logger.Error(err))...)
		} else {
			log.Debug("call", attrs...)
		}
		return resp, err
	}
}
