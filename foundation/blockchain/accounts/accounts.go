// Package accounts maintains account balances derived from the mined blocks.
package accounts

import (
	"math"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Info represents information stored for an individual account. Balances
// are signed since transactions are recorded without checking funds.
type Info struct {
	Balance int64
	Mined   uint64
}

// Accounts manages data related to accounts who have transacted on
// the blockchain.
type Accounts struct {
	genesis genesis.Genesis
	info    map[string]Info
	mu      sync.RWMutex
}

// New constructs accounts seeded with the genesis balances.
func New(genesis genesis.Genesis) *Accounts {
	accts := Accounts{
		genesis: genesis,
		info:    make(map[string]Info),
	}

	for account, balance := range genesis.Balances {
		accts.info[account] = Info{Balance: balance}
	}

	return &accts
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[string]Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := make(map[string]Info, len(act.info))
	for account, info := range act.info {
		accounts[account] = info
	}
	return accounts
}

// Balance returns the current balance for the specified account.
func (act *Accounts) Balance(account string) int64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.info[account].Balance
}

// ApplyBlock applies the transaction recorded in the block and credits the
// miner with the mining reward. Genesis is skipped.
func (act *Accounts) ApplyBlock(minerAccount string, block database.Block) {
	if block.Header.Number == 0 {
		return
	}

	act.ApplyTransaction(block.Header.Tx)
	act.ApplyMiningReward(minerAccount)
}

// ApplyMiningReward gives the specififed account the mining reward.
func (act *Accounts) ApplyMiningReward(minerAccount string) {
	act.mu.Lock()
	defer act.mu.Unlock()

	info := act.info[minerAccount]
	info.Balance += signed(act.genesis.MiningReward)
	info.Mined++

	act.info[minerAccount] = info
}

// ApplyTransaction moves the amount from the sender to the receiver.
func (act *Accounts) ApplyTransaction(tx database.Tx) {
	if tx.IsZero() {
		return
	}

	act.mu.Lock()
	defer act.mu.Unlock()
	{
		fromInfo := act.info[tx.From]
		fromInfo.Balance -= signed(tx.Amount)
		act.info[tx.From] = fromInfo

		toInfo := act.info[tx.To]
		toInfo.Balance += signed(tx.Amount)
		act.info[tx.To] = toInfo
	}
}

// signed converts an amount for use in a balance, capping it at the largest
// int64 instead of wrapping negative.
func signed(amount uint64) int64 {
	if amount > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(amount)
}
