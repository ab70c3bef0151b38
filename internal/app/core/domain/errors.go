package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須為正數 (或格式錯誤)
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSameAccount 來源與目標帳戶相同
	ErrSameAccount = errors.New("source and target account are the same")

	// ErrInvalidAccounts 來源或目標帳戶不存在
	ErrInvalidAccounts = errors.New("invalid source or target account")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient balance in the source account")

	// ErrBalanceOverflow 入帳後餘額會超過 MaxBalance
	ErrBalanceOverflow = errors.New("balance would exceed the maximum")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 同一客戶下帳號已存在 (儲存層)
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrAccountNumberInUse 同一客戶下帳號已被使用 (服務層)
	ErrAccountNumberInUse = errors.New("account number is already in use for this customer")

	// ErrInvalidAccountNumber 帳號不可為空
	ErrInvalidAccountNumber = errors.New("invalid account number")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEntryNotFound 找不到轉帳紀錄
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrStorageUnavailable 底層儲存無法使用
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWALWriteFailed WAL 寫入失敗
	ErrWALWriteFailed = errors.New("wal write failed")
)
