package commands

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/pterm/pterm"
)

// Validate reads every block stored on disk and checks the chain rules.
func Validate(genesisPath string, dbPath string) error {
	gen, err := loadGenesis(genesisPath)
	if err != nil {
		return err
	}

	d, err := disk.New(dbPath)
	if err != nil {
		return err
	}
	defer d.Close()

	blocks, err := database.ReadAll(d)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Blocks: %d  Difficulty: %d", len(blocks), gen.Difficulty)

	res := database.ValidateChain(blocks, gen.Difficulty)
	if !res.Valid {
		pterm.Error.Printfln("Chain is invalid: %s", res.Failure)
		return fmt.Errorf("invalid chain: %w", res.Err())
	}

	pterm.Success.Println("Chain is valid")

	return nil
}
