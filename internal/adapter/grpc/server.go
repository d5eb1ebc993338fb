package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/simplebanking-backend/internal/domain"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

// Server implements the BankingService gRPC server
type Server struct {
	BankingService *banking.Service
	Log            logrus.FieldLogger
}

// NewServer creates a new gRPC server instance
func NewServer(bankingService *banking.Service, log logrus.FieldLogger) *Server {
	return &Server{BankingService: bankingService, Log: log}
}

// NewGRPCServer builds a grpc.Server with the banking, health and reflection services registered
func NewGRPCServer(srv *Server, log logrus.FieldLogger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(LoggingInterceptor(log)),
	)

	RegisterBankingServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer
}

// Credit handles the Credit RPC
func (s *Server) Credit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, req, domain.NewDepositTransaction(amount), s.BankingService.Credit)
}

// Debit handles the Debit RPC
func (s *Server) Debit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, req, domain.NewWithdrawalTransaction(amount), s.BankingService.Debit)
}

// Bill handles the Bill RPC
func (s *Server) Bill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return nil, err
	}
	tx := domain.NewBillPaymentTransaction(stringField(req, "payee"), stringField(req, "phoneNumber"), amount)
	return s.post(ctx, req, tx, s.BankingService.Bill)
}

type postFunc func(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Transaction, error)

func (s *Server) post(ctx context.Context, req *structpb.Struct, tx *domain.Transaction, fn postFunc) (*structpb.Struct, error) {
	account, err := s.findAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	posted, err := fn(ctx, account, tx)
	if err != nil {
		return nil, s.mapError(err)
	}

	return newStruct(map[string]any{
		"status":       "OK",
		"approvalCode": posted.ApprovalCode,
	})
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := s.findAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, err := s.BankingService.GetAccount(ctx, account)
	if err != nil {
		return nil, s.mapError(err)
	}

	transactions := make([]any, 0, len(summary.Transactions))
	for _, item := range summary.Transactions {
		transactions = append(transactions, map[string]any{
			"date":         formatTime(item.Date),
			"amount":       item.Amount.InexactFloat64(),
			"type":         string(item.Type),
			"approvalCode": item.ApprovalCode,
		})
	}

	return newStruct(map[string]any{
		"accountNumber": summary.AccountNumber,
		"owner":         summary.Owner,
		"balance":       summary.Balance.InexactFloat64(),
		"createDate":    formatTime(summary.CreateDate),
		"transactions":  transactions,
	})
}

// CreateAccount handles the CreateAccount RPC
func (s *Server) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account := domain.NewAccount(stringField(req, "owner"), stringField(req, "accountNumber"))

	created, err := s.BankingService.CreateAccount(ctx, account)
	if err != nil {
		return nil, s.mapError(err)
	}

	return newStruct(map[string]any{
		"id":            created.ID.String(),
		"owner":         created.Owner,
		"accountNumber": created.AccountNumber,
		"balance":       created.Balance.InexactFloat64(),
		"createdDate":   formatTime(created.CreatedDate),
	})
}

func (s *Server) findAccount(ctx context.Context, req *structpb.Struct) (*domain.Account, error) {
	accountNumber := stringField(req, "accountNumber")
	if accountNumber == "" {
		return nil, status.Error(codes.InvalidArgument, "accountNumber is required")
	}

	account, err := s.BankingService.FindAccount(ctx, accountNumber)
	if err != nil {
		return nil, s.mapError(err)
	}
	return account, nil
}

// stringField returns the string value of key, or "" when it is missing or not a string
func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// amountField reads "amount" as a JSON number or a decimal string
func amountField(req *structpb.Struct) (decimal.Decimal, error) {
	value, ok := req.GetFields()["amount"]
	if !ok {
		return decimal.Zero, status.Error(codes.InvalidArgument, "amount is required")
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Zero, status.Error(codes.InvalidArgument, "amount must be a finite number")
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		amount, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
		}
		return amount, nil
	default:
		return decimal.Zero, status.Error(codes.InvalidArgument, "amount must be a number")
	}
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// mapError converts domain errors to gRPC status errors.
// Unexpected errors are logged and hidden from the client.
func (s *Server) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrTransactionKindMismatch),
		errors.Is(err, domain.ErrUnknownTransactionKind):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.Log.WithError(err).Error("request failed")
		return status.Error(codes.Internal, "internal error")
	}
}
