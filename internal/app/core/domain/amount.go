package domain

import (
	"github.com/shopspring/decimal"
)

// amount 使用int64，並定義精度：小數點後 4 位
const (
	CurrencyScale = 10000
	// currencyExp 對應 CurrencyScale 的 10 次方指數
	currencyExp = -4
)

// Amount 金額，以最小單位 (1/CurrencyScale) 儲存，避免浮點誤差
type Amount int64

// ParseAmount 將十進位字串 (如 "12.5") 轉為 Amount
//
// 參數:
//
//	s: 金額字串
//
// 回傳:
//
//	Amount: 最小單位金額
//	error: 格式錯誤或小數位數超過精度時回傳 ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	scaled := d.Shift(-currencyExp)
	if !scaled.IsInteger() {
		return 0, ErrInvalidAmount
	}
	if scaled.GreaterThan(decimal.NewFromInt(maxAmount)) || scaled.LessThan(decimal.NewFromInt(-maxAmount)) {
		return 0, ErrInvalidAmount
	}
	return Amount(scaled.IntPart()), nil
}

// maxAmount 避免 balance + delta 溢位
const maxAmount = int64(1) << 62

// MaxBalance 單一帳戶餘額上限
const MaxBalance = Amount(maxAmount)

// MustParseAmount 同 ParseAmount，失敗時 panic，只用於常數與測試
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic("domain: invalid amount " + s)
	}
	return a
}

// Decimal 轉為 decimal.Decimal
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), currencyExp)
}

// String 以固定 4 位小數輸出
func (a Amount) String() string {
	return a.Decimal().StringFixed(-currencyExp)
}

// IsPositive 金額是否大於 0
func (a Amount) IsPositive() bool {
	return a > 0
}
