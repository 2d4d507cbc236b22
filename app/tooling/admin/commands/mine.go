package commands

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/pterm/pterm"
)

// Mine builds a chain where two fresh wallets send each other signed
// transactions. Without a dbpath the chain only lives in memory.
func Mine(genesisPath string, args []string, ev func(v string, args ...any)) error {
	gen, err := loadGenesis(genesisPath)
	if err != nil {
		return err
	}

	blocks := 3
	if len(args) > 0 {
		if blocks, err = strconv.Atoi(args[0]); err != nil || blocks < 1 {
			return fmt.Errorf("invalid block count %q", args[0])
		}
	}

	var strg database.Serializer = memory.New()
	if len(args) > 1 {
		if strg, err = disk.New(args[1]); err != nil {
			return err
		}
	}

	st, err := state.New(context.Background(), state.Config{
		Genesis:   gen,
		Storage:   strg,
		EvHandler: ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	alice, err := wallet.New(rand.Reader)
	if err != nil {
		return err
	}

	bob, err := wallet.New(rand.Reader)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Mining %d blocks at difficulty %d", blocks, gen.Difficulty))

	for range blocks {
		for _, w := range []*wallet.Wallet{alice, bob} {
			receiver := bob.Address()
			if w == bob {
				receiver = alice.Address()
			}

			amount, err := rand.Int(rand.Reader, big.NewInt(100))
			if err != nil {
				return err
			}

			signedTx, err := w.Sign(w.CreateTx(receiver, amount.Uint64()+1))
			if err != nil {
				return err
			}

			// The same transfer within the same second is a replay.
			err = st.SubmitWalletTransaction(signedTx)
			if err != nil && !errors.Is(err, state.ErrDuplicate) {
				return err
			}
		}

		if _, err := st.MineNewBlock(context.Background()); err != nil {
			spinner.Fail(err)
			return err
		}
	}

	spinner.Success("Mining complete")

	data := pterm.TableData{{"Index", "Timestamp", "Nonce", "Trans", "Hash"}}
	for _, blk := range st.RetrieveBlocks() {
		data = append(data, []string{
			fmt.Sprint(blk.Index),
			fmt.Sprint(blk.TimeStamp),
			fmt.Sprint(blk.Nonce),
			fmt.Sprint(len(blk.Trans)),
			blk.Hash,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	res := st.Validate()
	if !res.Valid {
		return res.Err()
	}
	pterm.Success.Println("Chain is valid")

	return nil
}
