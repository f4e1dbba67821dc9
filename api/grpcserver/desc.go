package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "lexicon.v1.Dictionary"

	addWordMethod   = "/" + ServiceName + "/AddWord"
	checkWordMethod = "/" + ServiceName + "/CheckWord"
	statsMethod     = "/" + ServiceName + "/Stats"
	listWordsMethod = "/" + ServiceName + "/ListWords"
)

// DictionaryServer is the server API of lexicon.v1.Dictionary. Messages are
// protobuf well-known types, so no generated code is involved.
type DictionaryServer interface {
	AddWord(context.Context, *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error)
	CheckWord(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListWords(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.StringValue]) error
}

func RegisterDictionaryServer(s grpc.ServiceRegistrar, srv DictionaryServer) {
	s.RegisterService(&DictionaryServiceDesc, srv)
}

var DictionaryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DictionaryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddWord", Handler: addWordHandler},
		{MethodName: "CheckWord", Handler: checkWordHandler},
		{MethodName: "Stats", Handler: statsHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "ListWords", Handler: listWordsHandler, ServerStreams: true},
	},
	Metadata: "lexicon/v1/dictionary.proto",
}

// unary decodes a request of type Req and runs call through the interceptor
// chain, the way generated handlers do.
func unary[Req any, Res any](
	method string,
	call func(DictionaryServer, context.Context, *Req) (*Res, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DictionaryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DictionaryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	addWordHandler   = unary(addWordMethod, DictionaryServer.AddWord)
	checkWordHandler = unary(checkWordMethod, DictionaryServer.CheckWord)
	statsHandler     = unary(statsMethod, DictionaryServer.Stats)
)

func listWordsHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DictionaryServer).ListWords(in, &grpc.GenericServerStream[emptypb.Empty, wrapperspb.StringValue]{ServerStream: stream})
}
