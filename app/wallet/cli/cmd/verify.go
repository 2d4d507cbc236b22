package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var file string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the signature of a signed transaction",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&file, "file", "f", "", "File holding the signed transaction, stdin when empty.")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var signedTx database.SignedTx
	if err := json.NewDecoder(r).Decode(&signedTx); err != nil {
		return fmt.Errorf("decoding signed transaction: %w", err)
	}

	if !signedTx.Verify() {
		pterm.Error.Printfln("INVALID %s", signedTx)
		return fmt.Errorf("signature does not verify")
	}

	pterm.Success.Printfln("VALID %s", signedTx)

	return nil
}
