package database

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// ErrInvalidTx is returned when a transaction can't be recorded in a block.
var ErrInvalidTx = errors.New("invalid transaction")

// MaxAmount is the largest amount a transaction can carry. Balances are
// signed so amounts must fit in an int64.
const MaxAmount uint64 = math.MaxInt64

// Tx is the transactional information between two parties that is recorded
// as the payload of a block. The genesis block carries the zero value.
type Tx struct {
	From   string `json:"from" validate:"required,utf8"`             // Identifier of the account sending the value.
	To     string `json:"to" validate:"required,utf8"`               // Identifier of the account receiving the value.
	Amount uint64 `json:"amount" validate:"lte=9223372036854775807"` // Value transferred from From to To.
}

// NewTx constructs a new transaction.
func NewTx(from string, to string, amount uint64) Tx {
	return Tx{
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// IsZero reports whether this is the empty payload used by genesis.
func (tx Tx) IsZero() bool {
	return tx == Tx{}
}

// Check verifies the transaction can be hashed without losing information.
// JSON replaces invalid UTF-8 with the replacement character, so two
// different identifiers could otherwise produce the same hash.
func (tx Tx) Check() error {
	if !utf8.ValidString(tx.From) {
		return fmt.Errorf("%w: from %q is not valid utf-8", ErrInvalidTx, tx.From)
	}

	if !utf8.ValidString(tx.To) {
		return fmt.Errorf("%w: to %q is not valid utf-8", ErrInvalidTx, tx.To)
	}

	if tx.Amount > MaxAmount {
		return fmt.Errorf("%w: amount %d is above %d", ErrInvalidTx, tx.Amount, MaxAmount)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	if tx.IsZero() {
		return "<empty>"
	}

	return fmt.Sprintf("%s->%s:%d", tx.From, tx.To, tx.Amount)
}
