package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address for the wallet",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getSeedPath())
	if err != nil {
		return err
	}

	fmt.Println(w.Address())

	return nil
}
