// Package genesis maintains access to the genesis settings.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

// Genesis represents the genesis settings. These are fixed for the life of
// a chain.
type Genesis struct {
	Date         time.Time        `json:"date"`                                             // Timestamp of the genesis block, fixed so two chains share a genesis.
	ChainID      uint16           `json:"chain_id"`                                         // The chain id represents an unique id for this running instance.
	Difficulty   uint             `json:"difficulty" validate:"min=1,max=64"`               // How difficult it needs to be to solve the work problem.
	MiningReward uint64           `json:"mining_reward" validate:"lte=9223372036854775807"` // Reward for mining a block.
	Algorithm    digest.Algorithm `json:"algorithm" validate:"oneof=sha256 keccak256"`      // Hash function used for blocks.
	Balances     map[string]int64 `json:"balances"`                                         // Starting balances for accounts.
}

// Default returns the genesis settings used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   2,
		MiningReward: 100,
		Algorithm:    digest.SHA256,
		Balances:     map[string]int64{},
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default value.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis: %w", err)
	}

	return genesis, nil
}
