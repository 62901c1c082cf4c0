package database_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

func Test_Mine(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		alg        digest.Algorithm
		workers    int
	}

	tt := []table{
		{name: "d1", difficulty: 1, alg: digest.SHA256, workers: 1},
		{name: "d2", difficulty: 2, alg: digest.SHA256, workers: 1},
		{name: "d3", difficulty: 3, alg: digest.SHA256, workers: 1},
		{name: "keccak", difficulty: 2, alg: digest.Keccak256, workers: 1},
		{name: "parallel", difficulty: 3, alg: digest.SHA256, workers: 4},
	}

	t.Log("Given the need to mine blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen mining at difficulty %d with %d workers.", testID, tst.difficulty, tst.workers)
				{
					candidate := database.NewBlock(1, 1641000000, database.NewTx("Miner1", "Bob", 5), digest.ZeroHash)

					var events int32
					cfg := database.MineConfig{
						Difficulty: tst.difficulty,
						Algorithm:  tst.alg,
						Workers:    tst.workers,
						EvHandler: func(v string, args ...any) {
							atomic.AddInt32(&events, 1)
						},
					}

					block, err := database.Mine(context.Background(), candidate, cfg)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

					if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, block.Hash)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

					if got := block.ComputeHash(tst.alg); got != block.Hash {
						t.Fatalf("\t%s\tTest %d:\tShould store the hash of the final nonce: got %s, exp %s", failed, testID, got, block.Hash)
					}
					t.Logf("\t%s\tTest %d:\tShould store the hash of the final nonce.", success, testID)

					if candidate.Header.Nonce != 0 || candidate.Hash != "" {
						t.Fatalf("\t%s\tTest %d:\tShould not modify the candidate.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not modify the candidate.", success, testID)

					if block.Header.Number != candidate.Header.Number || block.Header.Tx != candidate.Header.Tx || block.Header.TimeStamp != candidate.Header.TimeStamp {
						t.Fatalf("\t%s\tTest %d:\tShould only change the nonce and hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould only change the nonce and hash.", success, testID)

					if atomic.LoadInt32(&events) == 0 {
						t.Fatalf("\t%s\tTest %d:\tShould report progress events.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould report progress events.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MineDeterministic(t *testing.T) {
	candidate := database.NewBlock(1, 1641000000, database.NewTx("Miner1", "Bob", 5), digest.ZeroHash)
	cfg := database.MineConfig{Difficulty: 2, Algorithm: digest.SHA256}

	b1, err := database.Mine(context.Background(), candidate, cfg)
	if err != nil {
		t.Fatalf("Should be able to mine the block: %s", err)
	}

	b2, err := database.Mine(context.Background(), candidate, cfg)
	if err != nil {
		t.Fatalf("Should be able to mine the block: %s", err)
	}

	if b1 != b2 {
		t.Logf("got: %s", b2)
		t.Logf("exp: %s", b1)
		t.Fatalf("Should find the same nonce and hash every time.")
	}

	// A sequential search finds the smallest solving nonce, so every nonce
	// before it must fail the difficulty check.
	for nonce := uint64(0); nonce < b1.Header.Nonce; nonce++ {
		b := candidate
		b.Header.Nonce = nonce
		if database.IsHashSolved(cfg.Difficulty, b.ComputeHash(cfg.Algorithm)) {
			t.Fatalf("Should find the first solving nonce, nonce %d also solves.", nonce)
		}
	}
}

func Test_MineExhausted(t *testing.T) {
	candidate := database.NewBlock(1, 1641000000, database.NewTx("Miner1", "Bob", 5), digest.ZeroHash)

	t.Log("Given the need to bound the cost of mining.")
	{
		for testID, workers := range []int{1, 3} {
			t.Logf("\tTest %d:\tWhen the difficulty can't be solved with %d workers.", testID, workers)
			{
				cfg := database.MineConfig{
					Difficulty:  digest.Length + 1,
					Algorithm:   digest.SHA256,
					MaxAttempts: 1000,
					Workers:     workers,
				}

				_, err := database.Mine(context.Background(), candidate, cfg)
				if !errors.Is(err, database.ErrMiningExhausted) {
					t.Fatalf("\t%s\tTest %d:\tShould get exhausted, got %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get exhausted.", success, testID)
			}
		}
	}
}

func Test_MineCancelled(t *testing.T) {
	candidate := database.NewBlock(1, 1641000000, database.NewTx("Miner1", "Bob", 5), digest.ZeroHash)

	t.Log("Given the need to cancel a mining operation.")
	{
		for testID, workers := range []int{1, 4} {
			t.Logf("\tTest %d:\tWhen the context is cancelled with %d workers.", testID, workers)
			{
				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				cfg := database.MineConfig{
					Difficulty: digest.Length,
					Algorithm:  digest.SHA256,
					Workers:    workers,
				}

				_, err := database.Mine(ctx, candidate, cfg)
				if !errors.Is(err, context.Canceled) {
					t.Fatalf("\t%s\tTest %d:\tShould get cancelled, got %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get cancelled.", success, testID)
			}
		}
	}
}

func Test_MineInvalidTx(t *testing.T) {
	tt := map[string]database.Tx{
		"from":   database.NewTx("\xff", "Bob", 5),
		"to":     database.NewTx("Miner1", "\xff", 5),
		"amount": database.NewTx("Miner1", "Bob", database.MaxAmount+1),
	}

	for name, tx := range tt {
		candidate := database.NewBlock(1, 1640995200, tx, digest.ZeroHash)

		_, err := database.Mine(context.Background(), candidate, database.MineConfig{Difficulty: 1, Algorithm: digest.SHA256})
		if !errors.Is(err, database.ErrInvalidTx) {
			t.Fatalf("Should refuse to mine an invalid %s, got %v", name, err)
		}
	}
}
