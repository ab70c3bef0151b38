package domain

import (
	"errors"
	"fmt"
)

// Result 轉帳結果，封閉集合
type Result uint8

const (
	ResultOK Result = iota
	ResultInvalidAmount
	ResultSameAccount
	ResultInvalidAccounts
	ResultInsufficientFunds
	// ResultDegraded 金額已移轉，但轉帳紀錄尚未確認寫入
	ResultDegraded
	// ResultFatal 底層儲存無法使用
	ResultFatal
)

var resultNames = [...]string{
	ResultOK:                "OK",
	ResultInvalidAmount:     "INVALID_AMOUNT",
	ResultSameAccount:       "SAME_ACCOUNT",
	ResultInvalidAccounts:   "INVALID_ACCOUNTS",
	ResultInsufficientFunds: "INSUFFICIENT_FUNDS",
	ResultDegraded:          "DEGRADED",
	ResultFatal:             "FATAL",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", r)
}

// Committed 金額是否已移轉
func (r Result) Committed() bool {
	return r == ResultOK || r == ResultDegraded
}

// Receipt 轉帳成功 (含 Degraded) 的回執
type Receipt struct {
	Result Result
	Entry  TransactionHistory
	// Replayed: RefID 已處理過，回傳的是原始紀錄
	Replayed bool
}

// TransferError 轉帳被拒絕或系統錯誤，包含原始請求方便記錄
type TransferError struct {
	Request TransferRequest
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %d -> %d (%s): %v",
		e.Request.SourceAccountID, e.Request.TargetAccountID, e.Request.Amount, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ResultOf 將錯誤轉為封閉的 Result 集合，nil 為 ResultOK
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrBalanceOverflow):
		return ResultInvalidAmount
	case errors.Is(err, ErrSameAccount):
		return ResultSameAccount
	case errors.Is(err, ErrInvalidAccounts), errors.Is(err, ErrAccountNotFound):
		return ResultInvalidAccounts
	case errors.Is(err, ErrInsufficientFunds):
		return ResultInsufficientFunds
	default:
		return ResultFatal
	}
}

// IsRejection 是否為業務拒絕 (非系統錯誤)
func IsRejection(err error) bool {
	r := ResultOf(err)
	return r != ResultOK && r != ResultFatal
}
