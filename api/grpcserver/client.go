package grpcserver

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"lexicon/domain/dictionary"
	"lexicon/service"
)

// Client calls lexicon.v1.Dictionary and converts replies back into the
// service types.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) AddWord(ctx context.Context, word string, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, addWordMethod, wrapperspb.String(word), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) CheckWord(ctx context.Context, word string, opts ...grpc.CallOption) (dictionary.Verdict, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, checkWordMethod, wrapperspb.String(word), out, opts...); err != nil {
		return dictionary.Verdict{}, err
	}
	f := out.GetFields()
	return dictionary.Verdict{
		Word:          f["word"].GetStringValue(),
		Found:         f["found"].GetBoolValue(),
		Suggestion:    f["suggestion"].GetStringValue(),
		HasSuggestion: f["has_suggestion"].GetBoolValue(),
		Compares:      int(f["compares"].GetNumberValue()),
	}, nil
}

func (c *Client) Stats(ctx context.Context, opts ...grpc.CallOption) (service.Stats, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, statsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return service.Stats{}, err
	}
	f := out.GetFields()
	return service.Stats{
		Words:       int(f["words"].GetNumberValue()),
		Height:      int(f["height"].GetNumberValue()),
		HeightBound: f["height_bound"].GetNumberValue(),
	}, nil
}

func (c *Client) ListWords(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	st, err := c.cc.NewStream(ctx, &DictionaryServiceDesc.Streams[0], listWordsMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[emptypb.Empty, wrapperspb.StringValue]{ClientStream: st}
	if err := x.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}

	var words []string
	for {
		w, err := x.Recv()
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return words, err
		}
		words = append(words, w.GetValue())
	}
}
