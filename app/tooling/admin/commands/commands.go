// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/pterm/pterm"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Help prints the set of supported commands.
func Help() {
	pterm.DefaultSection.Println("admin commands")
	pterm.Println("validate [dbpath]      re-derive and check every block stored on disk")
	pterm.Println("reset [dbpath]         remove every block stored on disk")
	pterm.Println("mine [blocks] [dbpath] mine a demo chain of signed transactions")
	pterm.Println("genesis                print the genesis parameters")
}

// Genesis prints the genesis parameters.
func Genesis(genesisPath string) error {
	gen, err := loadGenesis(genesisPath)
	if err != nil {
		return err
	}

	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Date", "Difficulty", "Trans Per Block", "Mining Workers"},
		{gen.Date.String(), fmt.Sprint(gen.Difficulty), fmt.Sprint(gen.TransPerBlock), fmt.Sprint(gen.MiningWorkers)},
	}).Render()

	return nil
}

func loadGenesis(genesisPath string) (genesis.Genesis, error) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return genesis.Genesis{}, err
	}

	if err := validate.Check(gen); err != nil {
		return genesis.Genesis{}, err
	}

	return gen, nil
}
