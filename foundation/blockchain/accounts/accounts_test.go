package accounts_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestTransactions(t *testing.T) {
	type table struct {
		name        string
		miner       string
		minerReward uint64
		sheet       map[string]int64
		final       map[string]int64
		txs         []database.Tx
	}

	tt := []table{
		{
			name:        "basic",
			miner:       "miner",
			minerReward: 100,
			sheet: map[string]int64{
				"Alice": 1000,
				"Bob":   0,
				"miner": 0,
			},
			final: map[string]int64{
				"Alice": 800,
				"Bob":   200,
				"miner": 200,
			},
			txs: []database.Tx{
				database.NewTx("Alice", "Bob", 100),
				database.NewTx("Alice", "Bob", 100),
			},
		},
		{
			name:        "overdrawn",
			miner:       "Miner1",
			minerReward: 100,
			sheet:       map[string]int64{},
			final: map[string]int64{
				"Miner1":  140,
				"Bob":     5,
				"Charlie": 55,
			},
			txs: []database.Tx{
				database.NewTx("Miner1", "Bob", 5),
				database.NewTx("Miner1", "Charlie", 55),
			},
		},
	}

	t.Log("Given the need to validate the transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of accounts.", testID)
			{
				f := func(t *testing.T) {
					accounts := accounts.New(genesis.Genesis{MiningReward: tst.minerReward, Balances: tst.sheet})

					for i, tx := range tst.txs {
						block := database.NewBlock(uint64(i+1), 0, tx, digest.ZeroHash)
						accounts.ApplyBlock(tst.miner, block)
						t.Logf("\t%s\tTest %d:\tShould be able to apply block %d.", success, testID, i+1)
					}

					accounts.ApplyBlock(tst.miner, database.NewBlock(0, 0, database.Tx{}, digest.ZeroHash))
					t.Logf("\t%s\tTest %d:\tShould be able to skip genesis.", success, testID)

					cpyAccts := accounts.Copy()
					if len(cpyAccts) != len(tst.final) {
						t.Errorf("\t%s\tTest %d:\tShould have %d accounts, got %d.", failed, testID, len(tst.final), len(cpyAccts))
					}

					for addr, info := range cpyAccts {
						finalValue, exists := tst.final[addr]
						if !exists {
							t.Errorf("\t%s\tTest %d:\tShould have account %s in balances.", failed, testID, addr)
						} else {
							t.Logf("\t%s\tTest %d:\tShould have account %s in balances.", success, testID, addr)
						}

						if finalValue != info.Balance {
							t.Errorf("\t%s\tTest %d:\tShould have correct balances for %s.", failed, testID, addr)
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, info.Balance)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, finalValue)
						} else {
							t.Logf("\t%s\tTest %d:\tShould have correct balances for %s.", success, testID, addr)
						}
					}

					if got := cpyAccts[tst.miner].Mined; got != uint64(len(tst.txs)) {
						t.Errorf("\t%s\tTest %d:\tShould count %d mined blocks, got %d.", failed, testID, len(tst.txs), got)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestLargeAmounts(t *testing.T) {
	accts := accounts.New(genesis.Genesis{MiningReward: 1 << 63})

	accts.ApplyTransaction(database.NewTx("Alice", "Bob", 1<<63))
	if got := accts.Balance("Alice"); got >= 0 {
		t.Fatalf("Should keep the sender negative, got %d", got)
	}
	if got := accts.Balance("Bob"); got <= 0 {
		t.Fatalf("Should keep the receiver positive, got %d", got)
	}

	accts.ApplyMiningReward("Miner1")
	if got := accts.Balance("Miner1"); got <= 0 {
		t.Fatalf("Should keep the miner positive, got %d", got)
	}
}
