package database

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

// ErrMiningExhausted is returned from Mine when every nonce allowed by
// MaxAttempts was tried without solving the puzzle.
var ErrMiningExhausted = errors.New("mining exhausted, no nonce solved the puzzle")

// progressInterval is how many hash attempts a worker makes between
// progress events.
const progressInterval = 1_000_000

// =============================================================================

// MineConfig represents the parameters of a mining operation.
//
// A Difficulty at or above digest.Length can never be solved and anything
// much above 8 is impractical. With MaxAttempts set to 0 such a search never
// returns unless the context is cancelled. This is a configuration hazard and
// not something Mine reports as an error.
type MineConfig struct {
	Difficulty  uint
	Algorithm   digest.Algorithm
	MaxAttempts uint64 // Size of the nonce space [0, MaxAttempts) to search, 0 is unbounded.
	Workers     int    // Number of G's scanning disjoint nonce ranges, defaults to 1.

	// EvHandler receives progress events. It's called from every worker G
	// so it must be safe for concurrent use when Workers is more than 1.
	EvHandler func(v string, args ...any)
}

// Mine performs the work of finding a nonce for the candidate block that
// solves the cryptographic POW puzzle. The candidate is not modified, the
// solved block is returned with its final nonce and hash.
func Mine(ctx context.Context, candidate Block, cfg MineConfig) (Block, error) {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if err := candidate.Header.Tx.Check(); err != nil {
		return Block{}, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]: workers[%d]", candidate.Header.Number, cfg.Difficulty, workers)
	defer ev("database: Mine: MINING: completed: blk[%d]", candidate.Header.Number)

	if workers == 1 {
		return search(ctx, candidate, 0, 1, cfg, ev)
	}

	return searchParallel(ctx, candidate, workers, cfg, ev)
}

// searchParallel runs one search per worker. Worker k scans the nonces
// k, k+workers, k+2*workers, ... The first worker to find a solution cancels
// the others, which stop before their next hash.
func searchParallel(ctx context.Context, candidate Block, workers int, cfg MineConfig, ev func(v string, args ...any)) (Block, error) {
	mineCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		block Block
		err   error
	}
	results := make(chan result, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(start uint64) {
			defer wg.Done()

			block, err := search(mineCtx, candidate, start, uint64(workers), cfg, ev)
			if err == nil {
				cancel()
			}
			results <- result{block: block, err: err}
		}(uint64(w))
	}

	wg.Wait()
	close(results)

	// More than one worker can solve the puzzle before seeing the cancel.
	// The smallest nonce wins.
	var solved *Block
	for r := range results {
		if r.err != nil {
			continue
		}
		if solved == nil || r.block.Header.Nonce < solved.Header.Nonce {
			b := r.block
			solved = &b
		}
	}

	switch {
	case solved != nil:
		return *solved, nil
	case ctx.Err() != nil:
		ev("database: Mine: MINING: CANCELLED")
		return Block{}, ctx.Err()
	default:
		return Block{}, ErrMiningExhausted
	}
}

// search hashes the block for every nonce in the sequence start, start+step,
// ... until the hash is solved, the nonce space is used up or the context
// is cancelled.
func search(ctx context.Context, b Block, start uint64, step uint64, cfg MineConfig, ev func(v string, args ...any)) (Block, error) {
	var attempts uint64
	for nonce := start; cfg.MaxAttempts == 0 || nonce < cfg.MaxAttempts; nonce += step {
		attempts++
		if attempts%progressInterval == 0 {
			ev("database: Mine: MINING: start[%d]: attempts[%d]", start, attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: start[%d]: CANCELLED", start)
			return Block{}, ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		b.Header.Nonce = nonce
		hash := b.ComputeHash(cfg.Algorithm)
		if IsHashSolved(cfg.Difficulty, hash) {
			b.Hash = hash

			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, hash)
			ev("database: Mine: MINING: nonce[%d]: attempts[%d]", nonce, attempts)

			return b, nil
		}

		if nonce > math.MaxUint64-step {
			break
		}
	}

	ev("database: Mine: MINING: start[%d]: EXHAUSTED: attempts[%d]", start, attempts)

	return Block{}, ErrMiningExhausted
}
