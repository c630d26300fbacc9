package types

import "math/big"

// Account holds the fund balance tracked for a single address. The reward
// ledger keeps its own point counters; accounts only carry money.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// NewAccount returns an account with a zero balance.
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0)}
}

// Clone produces a deep copy so callers cannot mutate shared big.Int values.
func (a *Account) Clone() *Account {
	if a == nil {
		return NewAccount()
	}
	clone := &Account{Nonce: a.Nonce, Balance: big.NewInt(0)}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	return clone
}

// BalanceOrZero returns the account balance, treating nil as zero.
func (a *Account) BalanceOrZero() *big.Int {
	if a == nil || a.Balance == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.Balance)
}
