package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fail logs err at a level matching its class and returns it as a status.
func (s *GRPCServer) fail(ctx context.Context, op string, err error, args ...any) error {
	st := toStatus(err)
	args = append(args, "op", op, "error", err.Error())

	switch {
	case errors.Is(err, common.ErrStorageUnavailable), st.Code() == codes.Internal:
		s.logger.Error(ctx, "request failed", args...)
	case errors.Is(err, common.ErrRedemptionConflict), errors.Is(err, common.ErrAllocationExhausted):
		s.logger.Warn(ctx, "request refused", args...)
	default:
		s.logger.Info(ctx, "request refused", args...)
	}

	return st.Err()
}

func requireUser(id int64) error {
	if id == 0 {
		return status.Error(codes.InvalidArgument, "user_id is required")
	}
	return nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*RegisterUserResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	if err := s.accounts.Register(ctx, req.UserID, req.UserName); err != nil {
		return nil, s.fail(ctx, "register", err, "user_id", req.UserID)
	}

	s.logger.Debug(ctx, "user registered", "user_id", req.UserID)
	return &RegisterUserResponse{}, nil
}

func (s *GRPCServer) Allocate(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	c, err := s.addresses.Allocate(ctx, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "allocate", err, "user_id", req.UserID)
	}

	s.logger.Info(ctx, "address allocated", "user_id", req.UserID, "address", c.Address)
	return &AllocateResponse{Credentials: *c}, nil
}

func (s *GRPCServer) DeleteAddress(ctx context.Context, req *DeleteAddressRequest) (*DeleteAddressResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	ok, err := s.addresses.Delete(ctx, req.AddressID, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "delete address", err, "user_id", req.UserID, "address_id", req.AddressID)
	}

	if ok {
		s.logger.Info(ctx, "address deleted", "user_id", req.UserID, "address_id", req.AddressID)
	}
	return &DeleteAddressResponse{Deleted: ok}, nil
}

func (s *GRPCServer) ListAddresses(ctx context.Context, req *ListAddressesRequest) (*ListAddressesResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	list, err := s.addresses.List(ctx, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "list addresses", err, "user_id", req.UserID)
	}
	return &ListAddressesResponse{Addresses: list}, nil
}

func (s *GRPCServer) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	st, err := s.accounts.Stats(ctx, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "stats", err, "user_id", req.UserID)
	}
	return &StatsResponse{Stats: *st}, nil
}

func (s *GRPCServer) CreateCode(ctx context.Context, req *CreateCodeRequest) (*CreateCodeResponse, error) {
	code, err := s.redemption.CreateCode(ctx, req.AdminID, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "create code", err, "admin_id", req.AdminID)
	}

	s.logger.Info(ctx, "code created", "admin_id", req.AdminID)
	return &CreateCodeResponse{Code: code}, nil
}

func (s *GRPCServer) Redeem(ctx context.Context, req *RedeemRequest) (*RedeemResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	u, err := s.redemption.Redeem(ctx, req.UserID, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "redeem", err, "user_id", req.UserID)
	}

	s.logger.Info(ctx, "code redeemed", "user_id", req.UserID, "premium_expiry", u.PremiumExpiry)
	return &RedeemResponse{User: *u}, nil
}

func (s *GRPCServer) ListInbox(ctx context.Context, req *ListInboxRequest) (*ListInboxResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	msgs, err := s.inbox.ListForUser(ctx, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "list inbox", err, "user_id", req.UserID)
	}
	return &ListInboxResponse{Messages: msgs}, nil
}

func (s *GRPCServer) ListAddressInbox(ctx context.Context, req *ListAddressInboxRequest) (*ListInboxResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	msgs, err := s.inbox.ListForAddress(ctx, req.UserID, req.Address)
	if err != nil {
		return nil, s.fail(ctx, "list address inbox", err, "user_id", req.UserID)
	}
	return &ListInboxResponse{Messages: msgs}, nil
}

func (s *GRPCServer) MarkRead(ctx context.Context, req *MarkReadRequest) (*MarkReadResponse, error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}

	ok, err := s.inbox.MarkRead(ctx, req.MessageID, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, "mark read", err, "user_id", req.UserID)
	}
	return &MarkReadResponse{Updated: ok}, nil
}

func (s *GRPCServer) RecordMessage(ctx context.Context, req *RecordMessageRequest) (*RecordMessageResponse, error) {
	msg := req.Message
	if err := s.inbox.Record(ctx, &msg); err != nil {
		return nil, s.fail(ctx, "record message", err)
	}

	s.logger.Debug(ctx, "message recorded", "address", msg.Address, "id", msg.ID)
	return &RecordMessageResponse{ID: msg.ID}, nil
}

func (s *GRPCServer) VerifyCredentials(ctx context.Context, req *VerifyCredentialsRequest) (*VerifyCredentialsResponse, error) {
	a, err := s.addresses.VerifyCredentials(ctx, req.Address, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "verify credentials", err)
	}
	return &VerifyCredentialsResponse{UserID: a.UserID, AddressID: a.ID}, nil
}
