package grpc

import "github.com/dmitrijs2005/fakemail/internal/server/models"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"username"`
}

type RegisterUserResponse struct{}

type AllocateRequest struct {
	UserID int64 `json:"user_id"`
}

// AllocateResponse is the only place the plaintext password ever appears.
type AllocateResponse struct {
	Credentials models.Credentials `json:"credentials"`
}

type DeleteAddressRequest struct {
	UserID    int64 `json:"user_id"`
	AddressID int64 `json:"address_id"`
}

type DeleteAddressResponse struct {
	Deleted bool `json:"deleted"`
}

type ListAddressesRequest struct {
	UserID int64 `json:"user_id"`
}

type ListAddressesResponse struct {
	Addresses []models.Address `json:"addresses"`
}

type StatsRequest struct {
	UserID int64 `json:"user_id"`
}

type StatsResponse struct {
	Stats models.Stats `json:"stats"`
}

type CreateCodeRequest struct {
	AdminID int64  `json:"admin_id"`
	Code    string `json:"code"`
}

type CreateCodeResponse struct {
	Code string `json:"code"`
}

type RedeemRequest struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

type RedeemResponse struct {
	User models.User `json:"user"`
}

type ListInboxRequest struct {
	UserID int64 `json:"user_id"`
}

type ListAddressInboxRequest struct {
	UserID  int64  `json:"user_id"`
	Address string `json:"address"`
}

type ListInboxResponse struct {
	Messages []models.InboxMessage `json:"messages"`
}

type MarkReadRequest struct {
	UserID    int64 `json:"user_id"`
	MessageID int64 `json:"message_id"`
}

type MarkReadResponse struct {
	Updated bool `json:"updated"`
}

type RecordMessageRequest struct {
	Message models.InboxMessage `json:"message"`
}

type RecordMessageResponse struct {
	ID int64 `json:"id"`
}

type VerifyCredentialsRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

type VerifyCredentialsResponse struct {
	UserID    int64 `json:"user_id"`
	AddressID int64 `json:"address_id"`
}
