package domain

import "time"

// Customer 客戶資料，由外部客戶目錄建立與維護
type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Account 帳戶
//
// 只以 CustomerID 關聯客戶，不持有 Customer 物件。
// Balance 只能透過 AccountStore.AtomicAdjust 變更，且永遠不為負數。
type Account struct {
	ID            int64
	CustomerID    int64
	AccountNumber string
	Balance       Amount
	CreatedAt     time.Time
}

// NewAccount 建立一個尚未寫入儲存層的帳戶
func NewAccount(customerID int64, accountNumber string, balance Amount) Account {
	return Account{
		CustomerID:    customerID,
		AccountNumber: accountNumber,
		Balance:       balance,
	}
}

// Adjusted 回傳套用 delta 後的餘額
// 結果為負數時回傳 ErrInsufficientFunds，超過 MaxBalance 時回傳 ErrBalanceOverflow
func (a *Account) Adjusted(delta Amount) (Amount, error) {
	if delta > 0 && a.Balance > MaxBalance-delta {
		return a.Balance, ErrBalanceOverflow
	}
	next := a.Balance + delta
	if next < 0 {
		return a.Balance, ErrInsufficientFunds
	}
	return next, nil
}
