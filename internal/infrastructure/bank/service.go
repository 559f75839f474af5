package bank

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

// Service is an in-memory ledger implementing the BankService port. It
// stands in for the host chain's bank module in tests and ephemeral
// deployments.
type Service struct {
	lock     *sync.RWMutex
	balances map[string]map[string]math.Int
}

func NewService() *Service {
	return &Service{
		lock:     &sync.RWMutex{},
		balances: map[string]map[string]math.Int{},
	}
}

// Fund credits an account out of thin air. Test and bootstrap helper.
func (s *Service) Fund(account string, coins []domain.Coin) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, coin := range coins {
		s.credit(account, coin.Denom, coin.Amount)
	}
}

// Balance returns the account's balance in the given denom.
func (s *Service) Balance(account, denom string) math.Int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if balance, ok := s.balances[account][denom]; ok {
		return balance
	}
	return math.ZeroInt()
}

// Transfer moves the coins between accounts. Either every coin moves or
// none does.
func (s *Service) Transfer(
	_ context.Context, from, to string, coins []domain.Coin,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, coin := range coins {
		balance, ok := s.balances[from][coin.Denom]
		if !ok {
			balance = math.ZeroInt()
		}
		if balance.LT(coin.Amount) {
			return fmt.Errorf(
				"insufficient funds: account %s holds %s%s, needs %s",
				from, balance, coin.Denom, coin,
			)
		}
	}

	for _, coin := range coins {
		s.debit(from, coin.Denom, coin.Amount)
		s.credit(to, coin.Denom, coin.Amount)
	}

	return nil
}

func (s *Service) debit(account, denom string, amount math.Int) {
	if s.balances[account] == nil {
		s.balances[account] = map[string]math.Int{}
	}
	current, ok := s.balances[account][denom]
	if !ok {
		current = math.ZeroInt()
	}
	s.balances[account][denom] = current.Sub(amount)
}

func (s *Service) credit(account, denom string, amount math.Int) {
	if s.balances[account] == nil {
		s.balances[account] = map[string]math.Int{}
	}
	current, ok := s.balances[account][denom]
	if !ok {
		current = math.ZeroInt()
	}
	s.balances[account][denom] = current.Add(amount)
}
