package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	url    string
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a transaction and submit it to a node",
	RunE:  sendRun,
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction and print it",
	RunE:  signRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiver.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiver.")
	signCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	signCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	signedTx, err := signTx()
	if err != nil {
		return err
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		return err
	}

	client := http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node responded %s", resp.Status)
		}
		return fmt.Errorf("node responded %s: %s", resp.Status, er.Error)
	}

	pterm.Success.Printfln("Submitted %s", signedTx)

	return nil
}

func signRun(cmd *cobra.Command, args []string) error {
	signedTx, err := signTx()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(signedTx, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}

func signTx() (database.SignedTx, error) {
	w, err := wallet.Load(getSeedPath())
	if err != nil {
		return database.SignedTx{}, err
	}

	return w.Sign(w.CreateTx(to, amount))
}
