package state

import (
	"errors"
	"fmt"
	"math/big"

	"syndeo/core/types"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the available
	// balance of the source account.
	ErrInsufficientFunds = errors.New("state: insufficient funds")
	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("state: invalid amount")
)

// PoolAddress is the account that holds the pooled reward funds. Deposits
// credit it, distributions pay out of it.
var PoolAddress = [20]byte{'s', 'y', 'n', 'd', 'e', 'o', '/', 'p', 'o', 'o', 'l'}

// Manager is the in-memory account store backing the reward ledger service.
// It is not safe for concurrent use; the RPC layer serialises access.
type Manager struct {
	accounts map[[20]byte]*types.Account
}

// NewManager returns an empty account store.
func NewManager() *Manager {
	return &Manager{accounts: make(map[[20]byte]*types.Account)}
}

// GetAccount returns a copy of the stored account, or a fresh zero-balance
// account when the address has never been touched.
func (m *Manager) GetAccount(addr [20]byte) *types.Account {
	if acc, ok := m.accounts[addr]; ok {
		return acc.Clone()
	}
	return types.NewAccount()
}

// Balance returns the current fund balance of the address.
func (m *Manager) Balance(addr [20]byte) *big.Int {
	return m.GetAccount(addr).BalanceOrZero()
}

// PoolBalance returns the currently pooled reward funds.
func (m *Manager) PoolBalance() *big.Int {
	return m.Balance(PoolAddress)
}

// Credit adds amount to the balance of addr.
func (m *Manager) Credit(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	acc, ok := m.accounts[addr]
	if !ok {
		acc = types.NewAccount()
		m.accounts[addr] = acc
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	acc.Balance.Add(acc.Balance, amount)
	return nil
}

// Debit removes amount from the balance of addr, failing without mutation if
// the balance is too small.
func (m *Manager) Debit(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	acc, ok := m.accounts[addr]
	if !ok || acc.Balance == nil || acc.Balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: debit %s", ErrInsufficientFunds, amount)
	}
	acc.Balance.Sub(acc.Balance, amount)
	return nil
}

// Transfer moves amount between two accounts as a single operation.
func (m *Manager) Transfer(from, to [20]byte, amount *big.Int) error {
	if err := m.Debit(from, amount); err != nil {
		return err
	}
	return m.Credit(to, amount)
}

// TransferFromPool pays amount out of the pool to the recipient. It is the
// transfer primitive the reward distributor uses.
func (m *Manager) TransferFromPool(to [20]byte, amount *big.Int) error {
	return m.Transfer(PoolAddress, to, amount)
}

// CreditPool deposits amount into the pooled reward funds.
func (m *Manager) CreditPool(amount *big.Int) error {
	return m.Credit(PoolAddress, amount)
}

// Snapshot captures the full account state so a failed operation can be
// rolled back to all-or-nothing semantics.
func (m *Manager) Snapshot() *Snapshot {
	accounts := make(map[[20]byte]*types.Account, len(m.accounts))
	for addr, acc := range m.accounts {
		accounts[addr] = acc.Clone()
	}
	return &Snapshot{accounts: accounts}
}

// Revert restores the state captured by the snapshot.
func (m *Manager) Revert(snap *Snapshot) {
	if snap == nil {
		return
	}
	accounts := make(map[[20]byte]*types.Account, len(snap.accounts))
	for addr, acc := range snap.accounts {
		accounts[addr] = acc.Clone()
	}
	m.accounts = accounts
}

// Snapshot is an opaque copy of the account state.
type Snapshot struct {
	accounts map[[20]byte]*types.Account
}
