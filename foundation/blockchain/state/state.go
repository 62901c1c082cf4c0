// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of mining blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the blockchain.
type Config struct {
	MinerAccount string
	Genesis      genesis.Genesis
	MaxAttempts  uint64
	Workers      int
	Now          func() time.Time
	EvHandler    EventHandler
}

// State manages the blockchain.
type State struct {
	minerAccount string
	evHandler    EventHandler
	mu           sync.Mutex

	genesis  genesis.Genesis
	mempool  *mempool.Mempool
	chain    *chain.Chain
	accounts *accounts.Accounts
}

// New constructs a new blockchain seeded with the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.MinerAccount == "" {
		return nil, errors.New("miner account is required")
	}

	if err := validate.Check(cfg.Genesis); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	// Construct the chain which creates the genesis block.
	chn := chain.New(chain.Config{
		Genesis:     cfg.Genesis,
		MaxAttempts: cfg.MaxAttempts,
		Workers:     cfg.Workers,
		Now:         cfg.Now,
		EvHandler:   chain.EventHandler(ev),
	})

	// Create a new accounts value to manage accounts who transact on
	// the blockchain and apply the genesis information.
	state := State{
		minerAccount: cfg.MinerAccount,
		evHandler:    ev,

		genesis:  cfg.Genesis,
		mempool:  mempool.New(),
		chain:    chn,
		accounts: accounts.New(cfg.Genesis),
	}

	return &state, nil
}

// SubmitTransaction validates the transaction and adds it to the mempool.
// The id identifying the transaction in the mempool is returned.
func (s *State) SubmitTransaction(tx database.Tx) (string, error) {
	if err := validate.Check(tx); err != nil {
		return "", fmt.Errorf("validating transaction: %w", err)
	}

	id, n := s.mempool.Upsert("", tx)
	s.evHandler("state: SubmitTransaction: mempool: tx[%s]: id[%s]: count[%d]", tx, id, n)

	return id, nil
}
