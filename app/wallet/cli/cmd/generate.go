package cmd

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getSeedPath()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("seed file %s already exists", path)
	}

	w, err := wallet.New(rand.Reader)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		return err
	}

	if err := w.Save(path); err != nil {
		return err
	}

	pterm.Success.Printfln("Wallet saved to %s", path)
	pterm.Info.Printfln("Address: %s", w.Address())

	return nil
}
