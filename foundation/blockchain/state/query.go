package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMinerAccount returns the account credited with mining rewards.
func (s *State) RetrieveMinerAccount() string {
	return s.minerAccount
}

// RetrieveBlocks returns a copy of every block in the chain.
func (s *State) RetrieveBlocks() []database.Block {
	return s.chain.Blocks()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.chain.LatestBlock()
}

// RetrieveMempool returns a copy of the pending transactions.
func (s *State) RetrieveMempool() []mempool.Entry {
	return s.mempool.Copy()
}

// RetrieveAlgorithm returns the hash function used for blocks.
func (s *State) RetrieveAlgorithm() digest.Algorithm {
	return s.chain.Algorithm()
}

// =============================================================================

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBalances returns a copy of the account balances.
func (s *State) QueryBalances() map[string]accounts.Info {
	return s.accounts.Copy()
}

// QueryBalance returns the balance for the specified account.
func (s *State) QueryBalance(account string) int64 {
	return s.accounts.Balance(account)
}

// QueryTotalBlocks returns the number of blocks including genesis.
func (s *State) QueryTotalBlocks() int {
	return s.chain.Length()
}

// QueryTotalAmount returns the sum of every amount transacted on the chain.
func (s *State) QueryTotalAmount() uint64 {
	return s.chain.TotalAmount()
}

// IsValid reports if the chain passes the integrity checks.
func (s *State) IsValid() bool {
	return s.chain.IsValid()
}
