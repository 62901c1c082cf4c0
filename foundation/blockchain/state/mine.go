package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// MineNewBlock takes the oldest transaction in the mempool and mines it into
// the next block in the chain. On success the transaction is removed from
// the mempool and the accounts are updated, including the mining reward.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	entry, ok := s.mempool.PickNext()
	if !ok {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: tx[%s]", entry.Tx)

	// Attempt to create a new block by solving the POW puzzle. This can be
	// cancelled, in which case the transaction stays in the mempool.
	block, err := s.chain.AddBlock(ctx, entry.Tx)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	s.mempool.Delete(entry.ID)
	s.accounts.ApplyBlock(s.minerAccount, block)

	return block, nil
}

// MineAll mines a block for every transaction in the mempool. The blocks
// mined before an error are returned with the error.
func (s *State) MineAll(ctx context.Context) ([]database.Block, error) {
	var blocks []database.Block
	for {
		block, err := s.MineNewBlock(ctx)
		if err != nil {
			if errors.Is(err, ErrNoTransactions) {
				return blocks, nil
			}
			return blocks, err
		}

		blocks = append(blocks, block)
	}
}
