package memory_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Memory(t *testing.T) {
	t.Log("Given the need to keep blocks in memory.")
	{
		t.Logf("\tTest 0:\tWhen writing blocks in and out of order.")
		{
			m := memory.New()

			if err := m.Write(database.Block{Index: 1}); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a block out of order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a block out of order.", success)

			trans := []database.Tx{{Sender: "A", Receiver: "B", Amount: 1}}
			if err := m.Write(database.Block{Index: 0}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould write block 0: %v", failed, err)
			}
			if err := m.Write(database.Block{Index: 1, Trans: trans}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould write block 1: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould write blocks in order.", success)

			trans[0].Amount = 99
			b, err := m.GetBlock(1)
			if err != nil || b.Trans[0].Amount != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould keep its own copy of the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould keep its own copy of the block.", success)

			blocks, err := database.ReadAll(m)
			if err != nil || len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould iterate 2 blocks, got %d: %v", failed, len(blocks), err)
			}
			t.Logf("\t%s\tTest 0:\tShould iterate 2 blocks.", success)
		}
	}
}
