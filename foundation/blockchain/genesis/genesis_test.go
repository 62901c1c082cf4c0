package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")

	content := `{"difficulty": 3, "algorithm": "keccak256", "balances": {"Alice": 50}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %s", err)
	}

	gen, err := genesis.Load(path)
	if err != nil {
		t.Fatalf("Should be able to load the genesis file: %s", err)
	}

	def := genesis.Default()

	if gen.Difficulty != 3 || gen.Algorithm != digest.Keccak256 {
		t.Fatalf("Should get the values from the file: difficulty[%d] algorithm[%s]", gen.Difficulty, gen.Algorithm)
	}

	if gen.Balances["Alice"] != 50 {
		t.Fatalf("Should get the balances from the file: %v", gen.Balances)
	}

	if !gen.Date.Equal(def.Date) || gen.MiningReward != def.MiningReward || gen.ChainID != def.ChainID {
		t.Fatalf("Should keep the defaults for missing values: %+v", gen)
	}
}

func Test_LoadErrors(t *testing.T) {
	if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("Should not be able to load a missing file.")
	}

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %s", err)
	}

	if _, err := genesis.Load(path); err == nil {
		t.Fatalf("Should not be able to load a corrupt file.")
	}
}
