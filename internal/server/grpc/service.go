package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "fakemail.v1.Mailbox"

// MailboxServer is the server API of the Mailbox service.
type MailboxServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	Allocate(context.Context, *AllocateRequest) (*AllocateResponse, error)
	DeleteAddress(context.Context, *DeleteAddressRequest) (*DeleteAddressResponse, error)
	ListAddresses(context.Context, *ListAddressesRequest) (*ListAddressesResponse, error)
	Stats(context.Context, *StatsRequest) (*StatsResponse, error)
	CreateCode(context.Context, *CreateCodeRequest) (*CreateCodeResponse, error)
	Redeem(context.Context, *RedeemRequest) (*RedeemResponse, error)
	ListInbox(context.Context, *ListInboxRequest) (*ListInboxResponse, error)
	ListAddressInbox(context.Context, *ListAddressInboxRequest) (*ListInboxResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*MarkReadResponse, error)
	RecordMessage(context.Context, *RecordMessageRequest) (*RecordMessageResponse, error)
	VerifyCredentials(context.Context, *VerifyCredentialsRequest) (*VerifyCredentialsResponse, error)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(MailboxServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(MailboxServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes the Mailbox service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MailboxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", MailboxServer.Ping),
		unary("RegisterUser", MailboxServer.RegisterUser),
		unary("Allocate", MailboxServer.Allocate),
		unary("DeleteAddress", MailboxServer.DeleteAddress),
		unary("ListAddresses", MailboxServer.ListAddresses),
		unary("Stats", MailboxServer.Stats),
		unary("CreateCode", MailboxServer.CreateCode),
		unary("Redeem", MailboxServer.Redeem),
		unary("ListInbox", MailboxServer.ListInbox),
		unary("ListAddressInbox", MailboxServer.ListAddressInbox),
		unary("MarkRead", MailboxServer.MarkRead),
		unary("RecordMessage", MailboxServer.RecordMessage),
		unary("VerifyCredentials", MailboxServer.VerifyCredentials),
	},
	Metadata: "fakemail/v1/mailbox",
}
