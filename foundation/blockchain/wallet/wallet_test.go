package wallet_test

import (
	"bytes"
	"crypto/rand"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Wallet(t *testing.T) {
	t.Log("Given the need to sign transactions from a wallet.")
	{
		t.Logf("\tTest 0:\tWhen creating and signing a transaction.")
		{
			w, err := wallet.New(rand.Reader, wallet.WithClock(func() time.Time { return time.Unix(1700000000, 0) }))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a wallet: %v", failed, err)
			}

			if len(w.Address()) != 2*signature.PublicKeyLength || w.Address() != w.PublicKey().String() {
				t.Fatalf("\t%s\tTest 0:\tShould have the hex public key as the address: %s", failed, w.Address())
			}
			t.Logf("\t%s\tTest 0:\tShould have the hex public key as the address.", success)

			tx := w.CreateTx("receiver_address", 100)
			if tx.Sender != w.Address() || tx.Receiver != "receiver_address" || tx.Amount != 100 || tx.TimeStamp != 1700000000 {
				t.Fatalf("\t%s\tTest 0:\tShould create the transaction, got %+v", failed, tx)
			}
			t.Logf("\t%s\tTest 0:\tShould create the transaction.", success)

			signedTx, err := w.Sign(tx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign: %v", failed, err)
			}

			if !signedTx.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould verify the signed transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould verify the signed transaction.", success)

			signedTx.Signature = "invalid_signature"
			if signedTx.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould not verify a bad signature.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify a bad signature.", success)
		}

		t.Logf("\tTest 1:\tWhen creating two wallets.")
		{
			w1, err1 := wallet.New(rand.Reader)
			w2, err2 := wallet.New(rand.Reader)
			if err1 != nil || err2 != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the wallets: %v %v", failed, err1, err2)
			}

			if w1.Address() == w2.Address() {
				t.Fatalf("\t%s\tTest 1:\tShould have different addresses.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould have different addresses.", success)
		}

		t.Logf("\tTest 2:\tWhen using a fixed seed.")
		{
			seed := bytes.Repeat([]byte{42}, signature.SeedLength)

			w1, err1 := wallet.New(bytes.NewReader(seed))
			w2, err2 := wallet.New(bytes.NewReader(seed))
			if err1 != nil || err2 != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to create the wallets: %v %v", failed, err1, err2)
			}

			if w1.Address() != w2.Address() {
				t.Fatalf("\t%s\tTest 2:\tShould derive the same address.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould derive the same address.", success)
		}

		t.Logf("\tTest 3:\tWhen the entropy source fails.")
		{
			if _, err := wallet.New(iotest.ErrReader(iotest.ErrTimeout)); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould get an error.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould get an error.", success)
		}

		t.Logf("\tTest 4:\tWhen saving and loading a wallet.")
		{
			w, err := wallet.New(rand.Reader)
			if err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould be able to create a wallet: %v", failed, err)
			}

			path := filepath.Join(t.TempDir(), "kennedy"+wallet.KeyExt)
			if err := w.Save(path); err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould be able to save: %v", failed, err)
			}

			loaded, err := wallet.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould be able to load: %v", failed, err)
			}

			if loaded.Address() != w.Address() {
				t.Fatalf("\t%s\tTest 4:\tShould load the same wallet.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould load the same wallet.", success)

			signedTx, err := loaded.Sign(loaded.CreateTx(w.Address(), 1))
			if err != nil || !signedTx.Verify() {
				t.Fatalf("\t%s\tTest 4:\tShould sign with the loaded key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 4:\tShould sign with the loaded key.", success)
		}
	}
}
