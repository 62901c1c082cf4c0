// Package cmd contains the powctl app for mining, simulating and verifying
// chains from the command line.
package cmd

import (
	"os"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/spf13/cobra"
)

var (
	difficulty uint
	algorithm  string
	workers    int
)

func init() {
	rootCmd.PersistentFlags().UintVarP(&difficulty, "difficulty", "d", 2, "Number of leading zeros required in a block hash.")
	rootCmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "g", string(digest.SHA256), "Hash function: sha256 or keccak256.")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Number of goroutines searching for a nonce.")
}

var rootCmd = &cobra.Command{
	Use:           "powctl",
	Short:         "Proof of work ledger tooling",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the command specified on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// chainFile is what simulate writes and verify reads.
type chainFile struct {
	Difficulty uint             `json:"difficulty"`
	Algorithm  digest.Algorithm `json:"algorithm"`
	Blocks     []database.Block `json:"blocks"`
}
