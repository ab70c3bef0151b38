package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// CustomerDirectory 記憶體版客戶目錄
type CustomerDirectory struct {
	mu        sync.RWMutex
	customers map[int64]domain.Customer
}

func NewCustomerDirectory(customers ...domain.Customer) *CustomerDirectory {
	d := &CustomerDirectory{customers: make(map[int64]domain.Customer)}
	for _, c := range customers {
		d.customers[c.ID] = c
	}
	return d
}

// Register 新增或覆寫客戶
func (d *CustomerDirectory) Register(c domain.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[c.ID] = c
}

func (d *CustomerDirectory) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.customers[customerID]
	return ok, nil
}

var _ usecase.CustomerDirectory = (*CustomerDirectory)(nil)
