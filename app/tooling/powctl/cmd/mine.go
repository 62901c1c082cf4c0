package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/spf13/cobra"
)

var (
	number      uint64
	prevHash    string
	from        string
	to          string
	amount      uint64
	timeStamp   uint64
	maxAttempts uint64
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a single block and print it.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().Uint64VarP(&number, "number", "n", 1, "Number of the block.")
	mineCmd.Flags().StringVarP(&prevHash, "prev", "p", digest.ZeroHash, "Hash of the previous block.")
	mineCmd.Flags().StringVarP(&from, "from", "f", "Miner1", "Sender of the transaction.")
	mineCmd.Flags().StringVarP(&to, "to", "t", "Bob", "Receiver of the transaction.")
	mineCmd.Flags().Uint64VarP(&amount, "amount", "a", 5, "Amount of the transaction.")
	mineCmd.Flags().Uint64Var(&timeStamp, "timestamp", 0, "Unix timestamp of the block, 0 uses the current time.")
	mineCmd.Flags().Uint64VarP(&maxAttempts, "max-attempts", "m", 0, "Size of the nonce space to search, 0 is unbounded.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	alg, err := digest.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	ts := timeStamp
	if ts == 0 {
		ts = uint64(time.Now().UTC().Unix())
	}

	candidate := database.NewBlock(number, ts, database.NewTx(from, to, amount), prevHash)

	start := time.Now()
	block, err := database.Mine(cmd.Context(), candidate, database.MineConfig{
		Difficulty:  difficulty,
		Algorithm:   alg,
		MaxAttempts: maxAttempts,
		Workers:     workers,
	})
	if err != nil {
		return fmt.Errorf("mining: %w", err)
	}

	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	fmt.Fprintf(cmd.ErrOrStderr(), "mined in %v\n", time.Since(start))

	return nil
}
