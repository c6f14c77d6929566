package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

var ErrUnavailable = errors.New("server unavailable")

// Client calls the Mailbox service. Errors are mapped back with FromStatus.
type Client struct {
	conn        *grpc.ClientConn
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, c.accessToken), method, req, reply, cc, opts...)
}

// NewClient connects to endpoint over plaintext. Extra options are appended
// after the defaults.
func NewClient(endpoint, accessToken string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(Codec)),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	return FromStatus(c.conn.Invoke(ctx, fullMethod(method), req, resp))
}

func (c *Client) Ping(ctx context.Context) error {
	resp := &PingResponse{}
	if err := c.invoke(ctx, "Ping", &PingRequest{}, resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *Client) RegisterUser(ctx context.Context, userID int64, userName string) error {
	return c.invoke(ctx, "RegisterUser", &RegisterUserRequest{UserID: userID, UserName: userName}, &RegisterUserResponse{})
}

func (c *Client) Allocate(ctx context.Context, userID int64) (*models.Credentials, error) {
	resp := &AllocateResponse{}
	if err := c.invoke(ctx, "Allocate", &AllocateRequest{UserID: userID}, resp); err != nil {
		return nil, err
	}
	return &resp.Credentials, nil
}

func (c *Client) DeleteAddress(ctx context.Context, addressID, userID int64) (bool, error) {
	resp := &DeleteAddressResponse{}
	if err := c.invoke(ctx, "DeleteAddress", &DeleteAddressRequest{UserID: userID, AddressID: addressID}, resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

func (c *Client) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	resp := &ListAddressesResponse{}
	if err := c.invoke(ctx, "ListAddresses", &ListAddressesRequest{UserID: userID}, resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

func (c *Client) Stats(ctx context.Context, userID int64) (*models.Stats, error) {
	resp := &StatsResponse{}
	if err := c.invoke(ctx, "Stats", &StatsRequest{UserID: userID}, resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (c *Client) CreateCode(ctx context.Context, adminID int64, code string) (string, error) {
	resp := &CreateCodeResponse{}
	if err := c.invoke(ctx, "CreateCode", &CreateCodeRequest{AdminID: adminID, Code: code}, resp); err != nil {
		return "", err
	}
	return resp.Code, nil
}

func (c *Client) Redeem(ctx context.Context, userID int64, code string) (*models.User, error) {
	resp := &RedeemResponse{}
	if err := c.invoke(ctx, "Redeem", &RedeemRequest{UserID: userID, Code: code}, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ListInbox(ctx context.Context, userID int64) ([]models.InboxMessage, error) {
	resp := &ListInboxResponse{}
	if err := c.invoke(ctx, "ListInbox", &ListInboxRequest{UserID: userID}, resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) ListAddressInbox(ctx context.Context, userID int64, address string) ([]models.InboxMessage, error) {
	resp := &ListInboxResponse{}
	if err := c.invoke(ctx, "ListAddressInbox", &ListAddressInboxRequest{UserID: userID, Address: address}, resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) MarkRead(ctx context.Context, messageID, userID int64) (bool, error) {
	resp := &MarkReadResponse{}
	if err := c.invoke(ctx, "MarkRead", &MarkReadRequest{UserID: userID, MessageID: messageID}, resp); err != nil {
		return false, err
	}
	return resp.Updated, nil
}

// Record implements the ingestion recorder against a remote core.
func (c *Client) Record(ctx context.Context, msg *models.InboxMessage) error {
	resp := &RecordMessageResponse{}
	if err := c.invoke(ctx, "RecordMessage", &RecordMessageRequest{Message: *msg}, resp); err != nil {
		return err
	}
	msg.ID = resp.ID
	return nil
}

func (c *Client) VerifyCredentials(ctx context.Context, address, password string) (*VerifyCredentialsResponse, error) {
	resp := &VerifyCredentialsResponse{}
	if err := c.invoke(ctx, "VerifyCredentials", &VerifyCredentialsRequest{Address: address, Password: password}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
