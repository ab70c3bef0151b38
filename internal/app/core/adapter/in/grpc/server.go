package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-bank-ledger/pkg/ledgerpb"
)

type GrpcServer struct {
	pb.UnimplementedLedgerServiceServer
	core   *usecase.CoreUseCase
	logger *slog.Logger
}

func NewGrpcServer(core *usecase.CoreUseCase, logger *slog.Logger) *GrpcServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrpcServer{
		core:   core,
		logger: logger,
	}
}

func (s *GrpcServer) Transfer(ctx context.Context, req *pb.TransferRequest) (*pb.TransferResponse, error) {
	// 1. 解析冪等鍵 (可為空) 與金額
	var refID uuid.UUID
	if req.RefId != "" {
		u, err := uuid.Parse(req.RefId)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid ref_id: "+err.Error())
		}
		refID = u
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid amount: "+err.Error())
	}

	// 2. 執行轉帳
	receipt, err := s.core.Transfer(ctx, domain.TransferRequest{
		RefID:           refID,
		SourceAccountID: req.SourceAccountId,
		TargetAccountID: req.TargetAccountId,
		Amount:          amount,
	})
	if err != nil {
		// 業務拒絕回傳 Result (Soft Failure)，系統錯誤回傳 Unavailable
		if domain.IsRejection(err) {
			return &pb.TransferResponse{
				Result:  pb.Result(domain.ResultOf(err)),
				Message: err.Error(),
			}, nil
		}
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	resp := &pb.TransferResponse{
		Result:   pb.Result(receipt.Result),
		Entry:    toPBEntry(receipt.Entry),
		Replayed: receipt.Replayed,
	}
	if receipt.Result == domain.ResultDegraded {
		resp.Message = "funds moved, ledger entry pending reconciliation"
	}
	return resp, nil
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *pb.CreateAccountRequest) (*pb.Account, error) {
	deposit := domain.Amount(0)
	if req.InitialDeposit != "" {
		d, err := domain.ParseAmount(req.InitialDeposit)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid initial_deposit: "+err.Error())
		}
		deposit = d
	}
	account, err := s.core.CreateAccount(ctx, req.CustomerId, req.AccountNumber, deposit)
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBAccount(account), nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *pb.GetAccountRequest) (*pb.Account, error) {
	account, err := s.core.GetAccount(ctx, req.AccountId)
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBAccount(account), nil
}

func (s *GrpcServer) GetHistory(req *pb.GetHistoryRequest, stream grpc.ServerStreamingServer[pb.Entry]) error {
	ctx := stream.Context()
	statement, err := s.core.GetStatement(ctx, req.AccountId)
	if err != nil {
		return toStatus(err)
	}
	for line, err := range statement {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return status.FromContextError(ctxErr).Err()
			}
			s.logger.Error("read history failed", slog.Int64("account_id", req.AccountId), slog.String("error", err.Error()))
			return status.Error(codes.Unavailable, err.Error())
		}
		out := toPBEntry(line.TransactionHistory)
		out.SourceAccountNumber = line.SourceAccountNumber
		out.TargetAccountNumber = line.TargetAccountNumber
		if err := stream.Send(out); err != nil {
			return err
		}
	}
	return nil
}

// toStatus 帳戶服務的錯誤轉為 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrAccountNumberInUse):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidAccountNumber):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

func toPBAccount(a domain.Account) *pb.Account {
	return &pb.Account{
		Id:                a.ID,
		CustomerId:        a.CustomerID,
		AccountNumber:     a.AccountNumber,
		Balance:           a.Balance.String(),
		CreatedAtUnixNano: a.CreatedAt.UnixNano(),
	}
}

func toPBEntry(e domain.TransactionHistory) *pb.Entry {
	out := &pb.Entry{
		Id:                e.ID.String(),
		Sequence:          e.Sequence,
		SourceAccountId:   e.SourceAccountID,
		TargetAccountId:   e.TargetAccountID,
		Amount:            e.Amount.String(),
		CreatedAtUnixNano: e.CreatedAt.UnixNano(),
	}
	if e.RefID != uuid.Nil {
		out.RefId = e.RefID.String()
	}
	return out
}

var _ pb.LedgerServiceServer = (*GrpcServer)(nil)
