// This program performs administrative tasks for the ledger.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

// Default locations of the node's files.
const (
	genesisPath = "zblock/genesis.json"
	dbPath      = "zblock/blocks/"
)

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("admin", "version", build, "args", os.Args[1:])

	return processCommands(os.Args, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, log *zap.SugaredLogger) error {
	if len(args) < 2 {
		commands.Help()
		return commands.ErrHelp
	}

	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	switch args[1] {
	case "validate":
		path := dbPath
		if len(args) > 2 {
			path = args[2]
		}
		if err := commands.Validate(genesisPath, path); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}

	case "reset":
		path := dbPath
		if len(args) > 2 {
			path = args[2]
		}
		if err := commands.Reset(path); err != nil {
			return fmt.Errorf("resetting chain: %w", err)
		}

	case "mine":
		if err := commands.Mine(genesisPath, args[2:], ev); err != nil {
			return fmt.Errorf("mining demo chain: %w", err)
		}

	case "genesis":
		if err := commands.Genesis(genesisPath); err != nil {
			return fmt.Errorf("reading genesis: %w", err)
		}

	default:
		commands.Help()
		return commands.ErrHelp
	}

	return nil
}
