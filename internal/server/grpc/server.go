package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"google.golang.org/grpc"
)

type Accounts interface {
	Register(ctx context.Context, userID int64, userName string) error
	Stats(ctx context.Context, userID int64) (*models.Stats, error)
}

type Addresses interface {
	Allocate(ctx context.Context, userID int64) (*models.Credentials, error)
	Delete(ctx context.Context, addressID, userID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]models.Address, error)
	VerifyCredentials(ctx context.Context, address, password string) (*models.Address, error)
}

type Redemption interface {
	CreateCode(ctx context.Context, adminID int64, code string) (string, error)
	Redeem(ctx context.Context, userID int64, code string) (*models.User, error)
}

type Inbox interface {
	Record(ctx context.Context, msg *models.InboxMessage) error
	ListForUser(ctx context.Context, userID int64) ([]models.InboxMessage, error)
	ListForAddress(ctx context.Context, userID int64, address string) ([]models.InboxMessage, error)
	MarkRead(ctx context.Context, messageID, userID int64) (bool, error)
}

// Services groups the core services exposed over gRPC.
type Services struct {
	Accounts   Accounts
	Addresses  Addresses
	Redemption Redemption
	Inbox      Inbox
}

type GRPCServer struct {
	address    string
	accounts   Accounts
	addresses  Addresses
	redemption Redemption
	inbox      Inbox
	logger     logging.Logger
	jwtSecret  []byte
}

var _ MailboxServer = (*GRPCServer)(nil)

func NewgGRPCServer(a string, l logging.Logger, svc Services, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		accounts:   svc.Accounts,
		addresses:  svc.Addresses,
		redemption: svc.Redemption,
		inbox:      svc.Inbox,
		jwtSecret:  []byte(secretKey),
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&ServiceDesc, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
