package commands

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/pterm/pterm"
)

// Reset removes every block stored on disk so the node mines a new genesis
// block on its next start.
func Reset(dbPath string) error {
	d, err := disk.New(dbPath)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Reset(); err != nil {
		return err
	}

	pterm.Success.Printfln("Removed the chain at %s", dbPath)

	return nil
}
