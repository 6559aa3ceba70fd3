package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "oil.v1.Parser"

// Full method names
const (
	ParseMethod = "/" + ServiceName + "/Parse"
	LexMethod   = "/" + ServiceName + "/Lex"
)

// ParserServer is the server API of oil.v1.Parser. Messages are
// google.protobuf.Struct values in the interchange form.
type ParserServer interface {
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Lex(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ParserServiceDesc describes oil.v1.Parser for grpc.Server registration
var ParserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParserServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Lex", Handler: lexHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "oil/v1/parser.proto",
}

// RegisterParserServer registers srv on s
func RegisterParserServer(s grpc.ServiceRegistrar, srv ParserServer) {
	s.RegisterService(&ParserServiceDesc, srv)
}

// Register exposes the service on s
func (s *Service) Register(registrar grpc.ServiceRegistrar) {
	RegisterParserServer(registrar, &grpcServer{svc: s})
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ParserServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func lexHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServer).Lex(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LexMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ParserServer).Lex(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// grpcServer adapts Service to ParserServer
type grpcServer struct {
	svc *Service
}

func (g *grpcServer) Parse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := RequestFromMap(in.AsMap())
	if err != nil {
		return nil, err
	}
	resp, err := g.svc.Parse(ctx, req)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(resp)
}

func (g *grpcServer) Lex(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := RequestFromMap(in.AsMap())
	if err != nil {
		return nil, err
	}
	resp, err := g.svc.Lex(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(resp)
}
