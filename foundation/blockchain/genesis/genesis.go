// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	Difficulty    uint      `json:"difficulty" validate:"max=64"`                     // Number of leading hex 0's a block hash needs.
	TransPerBlock uint16    `json:"trans_per_block" validate:"required,min=1"`        // The maximum number of transactions that can be in a block.
	MiningWorkers int       `json:"mining_workers" validate:"omitempty,min=1,max=64"` // Number of goroutines searching nonces for a block.
}

// Default returns the genesis values used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:          time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:    4,
		TransPerBlock: 10,
		MiningWorkers: 1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the values can run a chain. The struct tags serve the
// business layer's validator for friendly field errors; foundation packages
// can't import that layer, so state.New relies on this check instead.
func (g Genesis) Validate() error {
	if g.Difficulty > database.MaxDifficulty {
		return database.ErrInvalidDifficulty
	}

	if g.TransPerBlock == 0 {
		return fmt.Errorf("trans per block must be greater than 0")
	}

	if g.MiningWorkers < 0 {
		return fmt.Errorf("mining workers can't be negative, got %d", g.MiningWorkers)
	}

	return nil
}
