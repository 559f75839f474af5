package ports

import (
	"context"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

// FeePoolAccount accumulates marketplace fees until an administrative
// disbursement.
const FeePoolAccount = "marketplace/fee-pool"

// BankService is the ledger collaborator moving value between accounts.
// The marketplace core only instructs transfers after its own validation
// succeeded; it never holds balances itself.
type BankService interface {
	Transfer(ctx context.Context, from, to string, coins []domain.Coin) error
}
