package nameservice_test

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Lookup(t *testing.T) {
	t.Log("Given the need to name wallet addresses.")
	{
		t.Logf("\tTest 0:\tWhen a folder holds seed files.")
		{
			root := t.TempDir()

			w, err := wallet.New(rand.Reader)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a wallet: %v", failed, err)
			}
			if err := w.Save(filepath.Join(root, "kennedy"+wallet.KeyExt)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the wallet: %v", failed, err)
			}
			if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("ignored"), 0600); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write a file: %v", failed, err)
			}

			ns, err := nameservice.New(root)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the name service: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct the name service.", success)

			if name := ns.Lookup(w.Address()); name != "kennedy" {
				t.Fatalf("\t%s\tTest 0:\tShould find the name, got %q", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould find the name.", success)

			if name := ns.Lookup("unknown"); name != "unknown" {
				t.Fatalf("\t%s\tTest 0:\tShould return an unknown address as is, got %q", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould return an unknown address as is.", success)

			if len(ns.Copy()) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould only name the seed files.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould only name the seed files.", success)
		}
	}
}
