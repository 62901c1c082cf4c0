// Package simulation drives a mining run: it generates the scripted
// transactions, mines them one block at a time and reports the results.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ardanlabs/powchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by a simulation.
type Config struct {
	Log            *zap.SugaredLogger
	State          *state.State
	Counterparties []string
	AmountStep     uint64
	Out            io.Writer
}

// Summary represents the final aggregates of a simulation.
type Summary struct {
	TotalBlocks int
	TotalAmount uint64
	Valid       bool
	Balances    map[string]accounts.Info
}

// Transactions returns the scripted transactions: the miner sends each
// counterparty an amount that grows by step for every transaction.
func Transactions(miner string, counterparties []string, step uint64) []database.Tx {
	txs := make([]database.Tx, len(counterparties))
	for i, cp := range counterparties {
		txs[i] = database.NewTx(miner, cp, uint64(i+1)*step)
	}

	return txs
}

// Run submits the scripted transactions and mines a block for each one,
// writing every mined block and the final totals to cfg.Out.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if len(cfg.Counterparties) == 0 {
		return Summary{}, errors.New("at least one counterparty is required")
	}

	miner := cfg.State.RetrieveMinerAccount()

	for _, tx := range Transactions(miner, cfg.Counterparties, cfg.AmountStep) {
		id, err := cfg.State.SubmitTransaction(tx)
		if err != nil {
			return Summary{}, fmt.Errorf("submit tx[%s]: %w", tx, err)
		}
		cfg.Log.Infow("simulation", "status", "transaction submitted", "id", id, "tx", tx)
	}

	gb := cfg.State.RetrieveLatestBlock()
	fmt.Fprintf(cfg.Out, "Genesis block created with hash: %s\n", gb.Hash)

	for {
		block, err := cfg.State.MineNewBlock(ctx)
		if err != nil {
			if errors.Is(err, state.ErrNoTransactions) {
				break
			}
			return Summary{}, err
		}

		fmt.Fprintf(cfg.Out, "Block %d mined with hash: %s\n", block.Header.Number, block.Hash)
		fmt.Fprintf(cfg.Out, "  Transaction: %s sent %d to %s (nonce %d)\n", block.Header.Tx.From, block.Header.Tx.Amount, block.Header.Tx.To, block.Header.Nonce)
	}

	sum := Summary{
		TotalBlocks: cfg.State.QueryTotalBlocks(),
		TotalAmount: cfg.State.QueryTotalAmount(),
		Valid:       cfg.State.IsValid(),
		Balances:    cfg.State.QueryBalances(),
	}

	report(cfg.Out, sum)

	return sum, nil
}

// report writes the summary for display.
func report(w io.Writer, sum Summary) {
	fmt.Fprintf(w, "\nTotal blocks: %d\n", sum.TotalBlocks)
	fmt.Fprintf(w, "Total amount transacted: %d\n", sum.TotalAmount)
	fmt.Fprintf(w, "Chain valid: %t\n", sum.Valid)

	names := make([]string, 0, len(sum.Balances))
	for name := range sum.Balances {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nBalances:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, sum.Balances[name].Balance)
	}
}
