package usecase

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// AccountService 帳戶建立與查詢，不經過 TransferEngine
type AccountService struct {
	accounts  AccountStore
	entries   LedgerEntryStore
	customers CustomerDirectory
	logger    *slog.Logger
}

// ServiceOption 定義了 AccountService 的配置選項函數
type ServiceOption func(*AccountService)

// WithCustomerDirectory 建立帳戶時檢查客戶是否存在
func WithCustomerDirectory(d CustomerDirectory) ServiceOption {
	return func(s *AccountService) {
		s.customers = d
	}
}

// WithServiceLogger 設定 logger
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *AccountService) {
		s.logger = l
	}
}

// NewAccountService 建立 AccountService
func NewAccountService(accounts AccountStore, entries LedgerEntryStore, opts ...ServiceOption) *AccountService {
	s := &AccountService{
		accounts: accounts,
		entries:  entries,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount 為客戶建立帳戶
//
// 參數:
//
//	ctx: 上下文
//	customerID: 客戶 ID
//	accountNumber: 帳號 (同一客戶下不可重複)
//	initialDeposit: 初始存款 (>= 0)
//
// 回傳:
//
//	domain.Account: 新帳戶
//	error: ErrInvalidAmount / ErrInvalidAccountNumber / ErrCustomerNotFound / ErrAccountNumberInUse
func (s *AccountService) CreateAccount(ctx context.Context, customerID int64, accountNumber string, initialDeposit domain.Amount) (domain.Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if initialDeposit < 0 || initialDeposit > domain.MaxBalance {
		return domain.Account{}, domain.ErrInvalidAmount
	}
	if accountNumber == "" {
		return domain.Account{}, domain.ErrInvalidAccountNumber
	}

	if s.customers != nil {
		ok, err := s.customers.CustomerExists(ctx, customerID)
		if err != nil {
			return domain.Account{}, storageErr(err)
		}
		if !ok {
			return domain.Account{}, domain.ErrCustomerNotFound
		}
	}

	exists, err := s.accounts.ExistsByNumber(ctx, customerID, accountNumber)
	if err != nil {
		return domain.Account{}, storageErr(err)
	}
	if exists {
		s.logger.Info("account number already in use",
			slog.Int64("customer_id", customerID), slog.String("account_number", accountNumber))
		return domain.Account{}, domain.ErrAccountNumberInUse
	}

	account, err := s.accounts.Create(ctx, domain.NewAccount(customerID, accountNumber, initialDeposit))
	if err != nil {
		// 兩個請求同時通過 ExistsByNumber 時由儲存層的唯一性擋下
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			return domain.Account{}, domain.ErrAccountNumberInUse
		}
		return domain.Account{}, storageErr(err)
	}
	s.logger.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.Int64("customer_id", customerID),
		slog.String("balance", account.Balance.String()))
	return account, nil
}

// GetAccount 取得帳戶
func (s *AccountService) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Account{}, err
		}
		return domain.Account{}, storageErr(err)
	}
	return account, nil
}

// GetHistory 取得帳戶的轉帳紀錄 (時間遞增)，帳戶不存在時回傳 ErrAccountNotFound
func (s *AccountService) GetHistory(ctx context.Context, accountID int64) (iter.Seq2[domain.TransactionHistory, error], error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.entries.ListForAccount(ctx, accountID), nil
}

// GetStatement 同 GetHistory，另外以 AccountStore.Get 查出雙方帳號
// 同一次 range 內每個帳戶只查一次
func (s *AccountService) GetStatement(ctx context.Context, accountID int64) (iter.Seq2[domain.StatementLine, error], error) {
	history, err := s.GetHistory(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return func(yield func(domain.StatementLine, error) bool) {
		numbers := make(map[int64]string)
		numberOf := func(id int64) (string, error) {
			if n, ok := numbers[id]; ok {
				return n, nil
			}
			account, err := s.accounts.Get(ctx, id)
			if err != nil {
				return "", storageErr(err)
			}
			numbers[id] = account.AccountNumber
			return account.AccountNumber, nil
		}
		for entry, err := range history {
			if err != nil {
				yield(domain.StatementLine{}, err)
				return
			}
			line := domain.StatementLine{TransactionHistory: entry}
			if line.SourceAccountNumber, err = numberOf(entry.SourceAccountID); err != nil {
				yield(domain.StatementLine{}, err)
				return
			}
			if line.TargetAccountNumber, err = numberOf(entry.TargetAccountID); err != nil {
				yield(domain.StatementLine{}, err)
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}, nil
}
