package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrHashMismatch is returned when a block's stored hash does not match the
// hash recomputed from its own fields.
var ErrHashMismatch = errors.New("block hash does not match block contents")

// ErrBrokenLink is returned when a block does not reference the hash of the
// block before it.
var ErrBrokenLink = errors.New("block previous hash does not match parent block hash")

// =============================================================================

// BlockHeader represents the information that is hashed for each block. The
// field order defines the canonical serialization and must not change.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Position of the block in the chain, genesis is 0.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was constructed, before mining.
	Tx            Tx     `json:"tx"`              // The transaction recorded by this block.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
}

// Block represents a header and the hash that was found for it.
type Block struct {
	Header BlockHeader `json:"header"`
	Hash   string      `json:"hash"`
}

// NewBlock constructs a candidate block. The nonce starts at zero and the hash
// is left empty until the block is mined.
func NewBlock(number uint64, timeStamp uint64, tx Tx, prevBlockHash string) Block {
	return Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     timeStamp,
			Tx:            tx,
			PrevBlockHash: prevBlockHash,
		},
	}
}

// NewGenesisBlock constructs the first block of a chain. It has an empty
// transaction, the zero hash as its parent and is not mined.
func NewGenesisBlock(alg digest.Algorithm, date time.Time) Block {
	b := NewBlock(0, uint64(date.UTC().Unix()), Tx{}, digest.ZeroHash)
	b.Hash = b.ComputeHash(alg)

	return b
}

// ComputeHash returns the hash of the block header for the current nonce. It
// does not look at or modify the stored hash.
func (b Block) ComputeHash(alg digest.Algorithm) string {
	return digest.Hash(alg, b.Header)
}

// ValidateBlock takes a block and validates it against its parent. Genesis
// has no parent and is checked with ValidateGenesis instead.
func (b Block) ValidateBlock(previousBlock Block, alg digest.Algorithm, difficulty uint, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := previousBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrBrokenLink, b.Header.PrevBlockHash, previousBlock.Hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: transaction can be hashed", b.Header.Number)

	if err := b.Header.Tx.Check(); err != nil {
		return err
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash is well formed", b.Header.Number)

	if err := validateHashFormat(b.Hash); err != nil {
		return err
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash matches block contents", b.Header.Number)

	if hash := b.ComputeHash(alg); hash != b.Hash {
		return fmt.Errorf("%w: blk[%d]: got %s, exp %s", ErrHashMismatch, b.Header.Number, hash, b.Hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Header.Number)

	if !IsHashSolved(difficulty, b.Hash) {
		return fmt.Errorf("%s invalid block hash for difficulty %d", b.Hash, difficulty)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block's timestamp is not before parent block's timestamp", b.Header.Number)

	if b.Header.TimeStamp < previousBlock.Header.TimeStamp {
		parentTime := time.Unix(int64(previousBlock.Header.TimeStamp), 0)
		blockTime := time.Unix(int64(b.Header.TimeStamp), 0)
		return fmt.Errorf("block timestamp is before parent block, parent %s, block %s", parentTime, blockTime)
	}

	return nil
}

// ValidateGenesis checks the block is a well formed genesis block whose
// stored hash matches its contents.
func (b Block) ValidateGenesis(alg digest.Algorithm) error {
	if b.Header.Number != 0 {
		return fmt.Errorf("genesis block must be number 0, got %d", b.Header.Number)
	}

	if b.Header.PrevBlockHash != digest.ZeroHash {
		return fmt.Errorf("%w: genesis must reference the zero hash", ErrBrokenLink)
	}

	if hash := b.ComputeHash(alg); hash != b.Hash {
		return fmt.Errorf("%w: genesis: got %s, exp %s", ErrHashMismatch, hash, b.Hash)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d]:%s:%s", b.Header.Number, b.Hash, b.Header.Tx)
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's. A difficulty larger
// than the hash can never be solved.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}

// validateHashFormat checks the hash is a 32 byte hex encoded value.
func validateHashFormat(hash string) error {
	data, err := hexutil.Decode("0x" + hash)
	if err != nil {
		return fmt.Errorf("hash %q is not hex encoded: %w", hash, err)
	}

	if len(data) != digest.Length/2 {
		return fmt.Errorf("hash %q has %d bytes, exp %d", hash, len(data), digest.Length/2)
	}

	return nil
}
