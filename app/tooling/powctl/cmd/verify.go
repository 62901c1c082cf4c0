package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/spf13/cobra"
)

var chainPath string

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a chain written by simulate, read from a file or stdin.",
	Long:  "Verify a chain written by simulate. The chain must be mined to at least the --difficulty given.",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&chainPath, "file", "f", "", "Path to the chain JSON, stdin when empty.")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if chainPath != "" {
		f, err := os.Open(chainPath)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var cf chainFile
	if err := json.NewDecoder(r).Decode(&cf); err != nil {
		return fmt.Errorf("decoding chain: %w", err)
	}

	alg, err := digest.ParseAlgorithm(string(cf.Algorithm))
	if err != nil {
		return err
	}

	// The file can't lower the bar set on the command line.
	if cf.Difficulty < difficulty {
		return fmt.Errorf("chain difficulty %d is below the required %d", cf.Difficulty, difficulty)
	}

	if err := chain.Validate(cf.Blocks, alg, cf.Difficulty, nil); err != nil {
		return fmt.Errorf("chain invalid: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "chain valid: %d blocks\n", len(cf.Blocks))

	return nil
}
