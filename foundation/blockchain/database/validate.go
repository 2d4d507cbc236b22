package database

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Invariant identifies the chain rule a block failed.
type Invariant int

// Set of chain rules checked by ValidateChain.
const (
	InvariantGenesis    Invariant = iota + 1 // First block carries the zero hash and no transactions.
	InvariantHash                            // Stored hash matches the re-derived hash.
	InvariantLink                            // Previous hash matches the prior block's hash.
	InvariantDifficulty                      // Hash has the required leading zeros.
)

var invariantNames = map[Invariant]string{
	InvariantGenesis:    "invalid genesis",
	InvariantHash:       "hash mismatch",
	InvariantLink:       "broken link",
	InvariantDifficulty: "insufficient difficulty",
}

// String implements the fmt.Stringer interface.
func (inv Invariant) String() string {
	if name, exists := invariantNames[inv]; exists {
		return name
	}
	return fmt.Sprintf("invariant(%d)", int(inv))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (inv Invariant) MarshalText() ([]byte, error) {
	return []byte(inv.String()), nil
}

// =============================================================================

// Failure describes the first block that broke a chain rule.
type Failure struct {
	Index     uint64    `json:"index"`
	Invariant Invariant `json:"invariant"`
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s at index %d", f.Invariant, f.Index)
}

// Result is the outcome of validating a chain. Failure is nil when the
// chain is valid.
type Result struct {
	Valid   bool     `json:"valid"`
	Failure *Failure `json:"failure,omitempty"`
}

// Err returns the failure as an error, or nil for a valid chain.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// =============================================================================

// ValidateChain walks the entire chain re-deriving each block's hash from its
// stored fields and checking linkage and difficulty. It stops at the first
// block that fails and reports which rule failed at which position.
func ValidateChain(blocks []Block, difficulty uint) Result {
	if len(blocks) == 0 {
		return invalid(0, InvariantGenesis)
	}

	genesis := blocks[0]
	if genesis.PrevHash != signature.ZeroHash || len(genesis.Trans) != 0 {
		return invalid(0, InvariantGenesis)
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]

		if block.CalculateHash() != block.Hash {
			return invalid(uint64(i), InvariantHash)
		}

		if block.PrevHash != blocks[i-1].Hash {
			return invalid(uint64(i), InvariantLink)
		}

		if !isHashSolved(difficulty, block.Hash) {
			return invalid(uint64(i), InvariantDifficulty)
		}
	}

	return Result{Valid: true}
}

// invalid constructs a failed result.
func invalid(index uint64, inv Invariant) Result {
	return Result{
		Failure: &Failure{
			Index:     index,
			Invariant: inv,
		},
	}
}
