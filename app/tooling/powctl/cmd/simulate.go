package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/powchain/app/services/miner/simulation"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var (
	miner          string
	counterparties []string
	step           uint64
	reward         uint64
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Mine the scripted transactions and print the chain as JSON.",
	RunE:  simulateRun,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&miner, "miner", "Miner1", "Name of the miner.")
	simulateCmd.Flags().StringSliceVarP(&counterparties, "counterparties", "c", []string{"Alice", "Bob", "Charlie", "Dave"}, "Receivers of the scripted transactions.")
	simulateCmd.Flags().Uint64VarP(&step, "step", "s", 5, "Amount added for every scripted transaction.")
	simulateCmd.Flags().Uint64VarP(&reward, "reward", "r", 100, "Reward paid to the miner per block.")
}

func simulateRun(cmd *cobra.Command, args []string) error {
	alg, err := digest.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.MiningReward = reward
	gen.Algorithm = alg

	st, err := state.New(state.Config{
		MinerAccount: miner,
		Genesis:      gen,
		Workers:      workers,
	})
	if err != nil {
		return err
	}

	for _, tx := range simulation.Transactions(miner, counterparties, step) {
		if _, err := st.SubmitTransaction(tx); err != nil {
			return err
		}
	}

	for _, entry := range st.RetrieveMempool() {
		fmt.Fprintf(cmd.ErrOrStderr(), "pending: %s: %s\n", entry.ID, entry.Tx)
	}

	if _, err := st.MineAll(cmd.Context()); err != nil {
		return fmt.Errorf("mining: %w", err)
	}

	cf := chainFile{
		Difficulty: st.RetrieveGenesis().Difficulty,
		Algorithm:  st.RetrieveAlgorithm(),
		Blocks:     st.RetrieveBlocks(),
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
