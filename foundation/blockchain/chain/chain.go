// Package chain maintains the ordered sequence of blocks and owns the mining
// of new blocks and the verification of the chain's integrity.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// ErrEmptyChain is returned when validating a chain without a genesis block.
var ErrEmptyChain = errors.New("chain has no genesis block")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of mining and validating blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a chain.
type Config struct {
	Genesis     genesis.Genesis
	MaxAttempts uint64           // Bound on the nonce space searched per block, 0 is unbounded.
	Workers     int              // Number of G's searching for a nonce.
	Now         func() time.Time // Clock used to timestamp new blocks, defaults to time.Now.
	EvHandler   EventHandler
}

// Chain represents the blocks mined so far. Blocks are only ever appended.
type Chain struct {
	difficulty  uint
	alg         digest.Algorithm
	maxAttempts uint64
	workers     int
	now         func() time.Time
	evHandler   EventHandler

	// writeMu serializes AddBlock calls so the tip can't change while a
	// block is being mined. mu protects the blocks for readers.
	writeMu sync.Mutex
	mu      sync.RWMutex
	blocks  []database.Block
}

// New constructs a chain containing only the genesis block. The genesis
// block is not mined and is valid by definition.
func New(cfg Config) *Chain {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	alg := cfg.Genesis.Algorithm
	if alg == "" {
		alg = digest.SHA256
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// A date before the unix epoch can't be stored in a block header.
	date := cfg.Genesis.Date
	if date.IsZero() || date.Unix() < 0 {
		date = genesis.Default().Date
	}

	genesisBlock := database.NewGenesisBlock(alg, date)
	ev("chain: New: genesis: %s", genesisBlock)

	c := Chain{
		difficulty:  cfg.Genesis.Difficulty,
		alg:         alg,
		maxAttempts: cfg.MaxAttempts,
		workers:     cfg.Workers,
		now:         now,
		evHandler:   ev,
		blocks:      []database.Block{genesisBlock},
	}

	return &c
}

// AddBlock constructs a candidate block for the transaction on top of the
// current tip, mines it and appends it to the chain. An error is only
// possible when the context is cancelled or MaxAttempts is exhausted.
func (c *Chain) AddBlock(ctx context.Context, tx database.Tx) (database.Block, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	tip := c.LatestBlock()

	// The timestamp is fixed before mining starts and never goes behind
	// the tip, a clock running behind the genesis date included.
	timeStamp := tip.Header.TimeStamp
	if now := c.now().UTC().Unix(); now > 0 && uint64(now) > timeStamp {
		timeStamp = uint64(now)
	}

	candidate := database.NewBlock(tip.Header.Number+1, timeStamp, tx, tip.Hash)

	c.evHandler("chain: AddBlock: MINING: blk[%d]: tx[%s]", candidate.Header.Number, tx)

	block, err := database.Mine(ctx, candidate, database.MineConfig{
		Difficulty:  c.difficulty,
		Algorithm:   c.alg,
		MaxAttempts: c.maxAttempts,
		Workers:     c.workers,
		EvHandler:   c.evHandler,
	})
	if err != nil {
		return database.Block{}, fmt.Errorf("mining blk[%d]: %w", candidate.Header.Number, err)
	}

	c.mu.Lock()
	{
		c.blocks = append(c.blocks, block)
	}
	c.mu.Unlock()

	c.evHandler("chain: AddBlock: appended: %s", block)

	return block, nil
}

// IsValid walks the chain recomputing every block hash and checking every
// block references its parent. It never modifies the chain.
func (c *Chain) IsValid() bool {
	if err := Validate(c.Blocks(), c.alg, c.difficulty, c.evHandler); err != nil {
		c.evHandler("chain: IsValid: WARNING: %s", err)
		return false
	}

	return true
}

// =============================================================================

// Blocks returns a copy of the blocks in the chain.
func (c *Chain) Blocks() []database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]database.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// LatestBlock returns the tip of the chain.
func (c *Chain) LatestBlock() database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1]
}

// Length returns the number of blocks including genesis.
func (c *Chain) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// Difficulty returns the number of leading zeros required in a block hash.
func (c *Chain) Difficulty() uint {
	return c.difficulty
}

// Algorithm returns the hash function used for blocks.
func (c *Chain) Algorithm() digest.Algorithm {
	return c.alg
}

// TotalAmount returns the sum of the amounts of every recorded transaction.
func (c *Chain) TotalAmount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total uint64
	for _, block := range c.blocks {
		total += block.Header.Tx.Amount
	}

	return total
}

// =============================================================================

// Validate checks the genesis block and then every block against its parent.
// The first problem found is returned.
func Validate(blocks []database.Block, alg digest.Algorithm, difficulty uint, evHandler EventHandler) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	evHandler("chain: Validate: started: blocks[%d]", len(blocks))
	defer evHandler("chain: Validate: completed")

	if err := blocks[0].ValidateGenesis(alg); err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], alg, difficulty, evHandler); err != nil {
			return fmt.Errorf("blk[%d]: %w", i, err)
		}
	}

	return nil
}
