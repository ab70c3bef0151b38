package usecase

// CoreUseCase 是核心業務邏輯層，集合轉帳與帳戶服務供 adapter 使用
type CoreUseCase struct {
	*TransferEngine
	*AccountService
}

func NewCoreUseCase(engine *TransferEngine, accounts *AccountService) *CoreUseCase {
	return &CoreUseCase{
		TransferEngine: engine,
		AccountService: accounts,
	}
}
