package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "simplebanking.v1.BankingService"

// BankingServer is the server API for the BankingService.
// Requests and responses are google.protobuf.Struct messages carrying the HTTP JSON field names.
type BankingServer interface {
	Credit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Debit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Bill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(BankingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BankingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BankingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BankingServiceDesc is the grpc.ServiceDesc for the BankingService
var BankingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Credit", Handler: unaryHandler("Credit", BankingServer.Credit)},
		{MethodName: "Debit", Handler: unaryHandler("Debit", BankingServer.Debit)},
		{MethodName: "Bill", Handler: unaryHandler("Bill", BankingServer.Bill)},
		{MethodName: "GetAccount", Handler: unaryHandler("GetAccount", BankingServer.GetAccount)},
		{MethodName: "CreateAccount", Handler: unaryHandler("CreateAccount", BankingServer.CreateAccount)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "simplebanking/v1/banking.proto",
}

// RegisterBankingServer registers srv on s
func RegisterBankingServer(s grpc.ServiceRegistrar, srv BankingServer) {
	s.RegisterService(&BankingServiceDesc, srv)
}

// BankingClient calls the BankingService over a client connection
type BankingClient struct {
	cc grpc.ClientConnInterface
}

// NewBankingClient creates a client for the BankingService
func NewBankingClient(cc grpc.ClientConnInterface) *BankingClient {
	return &BankingClient{cc: cc}
}

func (c *BankingClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BankingClient) Credit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Credit", in, opts...)
}

func (c *BankingClient) Debit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Debit", in, opts...)
}

func (c *BankingClient) Bill(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Bill", in, opts...)
}

func (c *BankingClient) GetAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetAccount", in, opts...)
}

func (c *BankingClient) CreateAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateAccount", in, opts...)
}
