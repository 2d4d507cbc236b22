package database_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Values mined ahead of time for a timestamp of 1700000000 and difficulty 2.
const (
	goldenTime    = 1700000000
	genesisNonce  = 149
	genesisHash   = "0004945da8715d9d71254a3b73228a718e55f7d5d6ca646d44c025863e14e6a1"
	block1Nonce   = 127
	block1Hash    = "00b09ffb9289d90962f50bbc7e291f05efdfd16cb13ff070b77edb1ac00709ea"
	block1D3Nonce = 6957
	block1D3Hash  = "000e243832b60cd033817faf7a725846440f4c432c1866d7d40b0a4f2b1abdd9"
)

func fixedNow() time.Time {
	return time.Unix(goldenTime, 0)
}

func goldenTrans() []database.Tx {
	return []database.Tx{{Sender: "A", Receiver: "B", Amount: 10}}
}

// mineChain builds a chain of the genesis block plus one block holding the
// golden transactions.
func mineChain(t *testing.T, difficulty uint) []database.Block {
	genesis, err := database.POW(context.Background(), database.POWArgs{
		PrevHash:   signature.ZeroHash,
		Difficulty: difficulty,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("Should be able to mine the genesis block: %s", err)
	}

	block, err := database.POW(context.Background(), database.POWArgs{
		Index:      1,
		PrevHash:   genesis.Hash,
		Difficulty: difficulty,
		Trans:      goldenTrans(),
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("Should be able to mine block 1: %s", err)
	}

	return []database.Block{genesis, block}
}

// =============================================================================

func Test_EncodeTxs(t *testing.T) {
	type table struct {
		name  string
		trans []database.Tx
		exp   string
	}

	tt := []table{
		{
			name:  "nil",
			trans: nil,
			exp:   `[]`,
		},
		{
			name:  "basic",
			trans: goldenTrans(),
			exp:   `[{"sender":"A","receiver":"B","amount":10,"timestamp":0}]`,
		},
		{
			name: "multiple",
			trans: []database.Tx{
				{Sender: "A", Receiver: "B", Amount: 10, TimeStamp: 1},
				{Sender: "B", Receiver: "C", Amount: 18446744073709551615, TimeStamp: 2},
			},
			exp: `[{"sender":"A","receiver":"B","amount":10,"timestamp":1},{"sender":"B","receiver":"C","amount":18446744073709551615,"timestamp":2}]`,
		},
		{
			name:  "escaping",
			trans: []database.Tx{{Sender: "a\"b\\c", Receiver: "x\ny\tz\x01\x1f\b\f\r"}},
			exp:   `[{"sender":"a\"b\\c","receiver":"x\ny\tz\u0001\u001f\b\f\r","amount":0,"timestamp":0}]`,
		},
		{
			name:  "no-html-escaping",
			trans: []database.Tx{{Sender: "<a&b>", Receiver: "\u2028\u2029é"}},
			exp:   "[{\"sender\":\"<a&b>\",\"receiver\":\"\u2028\u2029é\",\"amount\":0,\"timestamp\":0}]",
		},
	}

	t.Log("Given the need to encode transactions canonically.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					got := database.EncodeTxs(tst.trans)
					if got != tst.exp {
						t.Logf("\t\tTest %d:\tgot: %s", testID, got)
						t.Logf("\t\tTest %d:\texp: %s", testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the canonical encoding.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the canonical encoding.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_EncodeMatchesJSON(t *testing.T) {
	trans := []database.Tx{
		{Sender: "d75a980182b10ab7", Receiver: "3d4017c3e843895a", Amount: 100, TimeStamp: 1700000000},
		{Sender: "with space", Receiver: "quote\"and\\slash", Amount: 1, TimeStamp: 2},
	}

	t.Log("Given the need for the encoding to agree with plain json for ordinary values.")
	{
		t.Logf("\tTest 0:\tWhen comparing against encoding/json.")
		{
			data, err := json.Marshal(trans)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to marshal: %v", failed, err)
			}

			if got := database.EncodeTxs(trans); got != string(data) {
				t.Logf("\t\tTest 0:\tgot: %s", got)
				t.Logf("\t\tTest 0:\texp: %s", data)
				t.Fatalf("\t%s\tTest 0:\tShould match encoding/json.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould match encoding/json.", success)

			single, _ := json.Marshal(trans[0])
			if !bytes.Equal(trans[0].Encode(), single) {
				t.Fatalf("\t%s\tTest 0:\tShould match encoding/json for a single tx: %s", failed, trans[0].Encode())
			}
			t.Logf("\t%s\tTest 0:\tShould match encoding/json for a single tx.", success)
		}
	}
}

// =============================================================================

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine blocks deterministically.")
	{
		t.Logf("\tTest 0:\tWhen mining at difficulty 2 with a fixed clock.")
		{
			chain := mineChain(t, 2)

			if chain[0].Nonce != genesisNonce || chain[0].Hash != genesisHash {
				t.Logf("\t\tTest 0:\tgot: %d %s", chain[0].Nonce, chain[0].Hash)
				t.Logf("\t\tTest 0:\texp: %d %s", genesisNonce, genesisHash)
				t.Fatalf("\t%s\tTest 0:\tShould find the expected genesis nonce.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the expected genesis nonce.", success)

			if chain[1].Nonce != block1Nonce || chain[1].Hash != block1Hash {
				t.Logf("\t\tTest 0:\tgot: %d %s", chain[1].Nonce, chain[1].Hash)
				t.Logf("\t\tTest 0:\texp: %d %s", block1Nonce, block1Hash)
				t.Fatalf("\t%s\tTest 0:\tShould find the expected block nonce.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the expected block nonce.", success)

			if chain[1].TimeStamp != goldenTime || chain[1].PrevHash != genesisHash {
				t.Fatalf("\t%s\tTest 0:\tShould store the fixed timestamp and parent hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould store the fixed timestamp and parent hash.", success)
		}

		t.Logf("\tTest 1:\tWhen mining at several difficulties.")
		{
			for d := uint(0); d <= 3; d++ {
				block, err := database.POW(context.Background(), database.POWArgs{
					Index:      7,
					PrevHash:   "parent",
					Difficulty: d,
					Trans:      goldenTrans(),
				})
				if err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to mine at difficulty %d: %v", failed, d, err)
				}

				if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(d))) {
					t.Fatalf("\t%s\tTest 1:\tShould have %d leading zeros: %s", failed, d, block.Hash)
				}

				if block.CalculateHash() != block.Hash {
					t.Fatalf("\t%s\tTest 1:\tShould recompute the same hash at difficulty %d.", failed, d)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould have leading zeros and a reproducible hash.", success)
		}

		t.Logf("\tTest 2:\tWhen the difficulty can never be solved.")
		{
			_, err := database.POW(context.Background(), database.POWArgs{Difficulty: database.MaxDifficulty + 1})
			if !errors.Is(err, database.ErrInvalidDifficulty) {
				t.Fatalf("\t%s\tTest 2:\tShould get an invalid difficulty error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get an invalid difficulty error.", success)
		}

		t.Logf("\tTest 3:\tWhen the search is cancelled.")
		{
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := database.POW(ctx, database.POWArgs{Difficulty: database.MaxDifficulty})
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest 3:\tShould stop with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould stop with the context error.", success)

			_, err = database.POWParallel(ctx, database.POWArgs{Difficulty: database.MaxDifficulty}, 4)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest 3:\tShould stop the parallel search with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould stop the parallel search with the context error.", success)
		}
	}
}

func Test_POWParallel(t *testing.T) {
	genesis := mineChain(t, 2)[0]

	t.Log("Given the need to shard the nonce search without changing the result.")
	{
		for _, workers := range []int{1, 2, 3, 8} {
			t.Logf("\tTest %d:\tWhen mining with %d workers.", workers, workers)
			{
				block, err := database.POWParallel(context.Background(), database.POWArgs{
					Index:      1,
					PrevHash:   genesis.Hash,
					Difficulty: 3,
					Trans:      goldenTrans(),
					Now:        fixedNow,
				}, workers)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, workers, err)
				}

				if block.Nonce != block1D3Nonce || block.Hash != block1D3Hash {
					t.Logf("\t\tTest %d:\tgot: %d %s", workers, block.Nonce, block.Hash)
					t.Logf("\t\tTest %d:\texp: %d %s", workers, block1D3Nonce, block1D3Hash)
					t.Fatalf("\t%s\tTest %d:\tShould find the lowest solving nonce.", failed, workers)
				}
				t.Logf("\t%s\tTest %d:\tShould find the lowest solving nonce.", success, workers)
			}
		}
	}
}

// =============================================================================

func Test_ValidateChain(t *testing.T) {
	type table struct {
		name   string
		mutate func(chain []database.Block) []database.Block
		index  uint64
		inv    database.Invariant
	}

	tt := []table{
		{
			name:   "amount",
			mutate: func(c []database.Block) []database.Block { c[1].Trans[0].Amount = 11; return c },
			index:  1,
			inv:    database.InvariantHash,
		},
		{
			name:   "nonce",
			mutate: func(c []database.Block) []database.Block { c[1].Nonce++; return c },
			index:  1,
			inv:    database.InvariantHash,
		},
		{
			name:   "previous-hash",
			mutate: func(c []database.Block) []database.Block { c[1].PrevHash = strings.Repeat("0", 64); return c },
			index:  1,
			inv:    database.InvariantHash,
		},
		{
			name: "transaction-set",
			mutate: func(c []database.Block) []database.Block {
				c[1].Trans = append(c[1].Trans, database.Tx{Sender: "C", Receiver: "D", Amount: 1})
				return c
			},
			index: 1,
			inv:   database.InvariantHash,
		},
		{
			name: "broken-link",
			mutate: func(c []database.Block) []database.Block {
				remined, _ := database.POW(context.Background(), database.POWArgs{
					Index:      1,
					PrevHash:   "not-the-genesis-hash",
					Difficulty: 2,
					Trans:      goldenTrans(),
				})
				c[1] = remined
				return c
			},
			index: 1,
			inv:   database.InvariantLink,
		},
		{
			name: "genesis-with-trans",
			mutate: func(c []database.Block) []database.Block {
				c[0].Trans = goldenTrans()
				return c
			},
			index: 0,
			inv:   database.InvariantGenesis,
		},
		{
			name:   "empty",
			mutate: func(c []database.Block) []database.Block { return nil },
			index:  0,
			inv:    database.InvariantGenesis,
		},
	}

	t.Log("Given the need to detect tampering anywhere in the chain.")
	{
		t.Logf("\tTest 0:\tWhen validating an untouched chain.")
		{
			chain := mineChain(t, 2)

			if res := database.ValidateChain(chain, 2); !res.Valid || res.Err() != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be a valid chain: %v", failed, res.Err())
			}
			t.Logf("\t%s\tTest 0:\tShould be a valid chain.", success)

			if res := database.ValidateChain(chain[:1], 2); !res.Valid {
				t.Fatalf("\t%s\tTest 0:\tShould treat a genesis only chain as valid: %v", failed, res.Err())
			}
			t.Logf("\t%s\tTest 0:\tShould treat a genesis only chain as valid.", success)
		}

		for i, tst := range tt {
			testID := i + 1
			t.Logf("\tTest %d:\tWhen tampering with %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					chain := tst.mutate(mineChain(t, 2))

					res := database.ValidateChain(chain, 2)
					if res.Valid || res.Failure == nil {
						t.Fatalf("\t%s\tTest %d:\tShould fail validation.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould fail validation.", success, testID)

					if res.Failure.Index != tst.index || res.Failure.Invariant != tst.inv {
						t.Logf("\t\tTest %d:\tgot: %s", testID, res.Failure)
						t.Logf("\t\tTest %d:\texp: %s at index %d", testID, tst.inv, tst.index)
						t.Fatalf("\t%s\tTest %d:\tShould report the right rule and index.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould report %q.", success, testID, res.Failure)
				}

				t.Run(tst.name, f)
			}
		}

		t.Logf("\tTest %d:\tWhen validating against a higher difficulty.", len(tt)+1)
		{
			chain := mineChain(t, 2)

			res := database.ValidateChain(chain, 3)
			if res.Failure == nil || res.Failure.Invariant != database.InvariantDifficulty || res.Failure.Index != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould report insufficient difficulty at index 1: %v", failed, len(tt)+1, res.Err())
			}
			if res.Err().Error() != "insufficient difficulty at index 1" {
				t.Fatalf("\t%s\tTest %d:\tShould format the failure: %q", failed, len(tt)+1, res.Err())
			}
			t.Logf("\t%s\tTest %d:\tShould report insufficient difficulty at index 1.", success, len(tt)+1)
		}
	}
}

func Test_ValidateScenario(t *testing.T) {
	t.Log("Given a difficulty 2 chain holding a single A to B transfer.")
	{
		t.Logf("\tTest 0:\tWhen the amount is changed after mining.")
		{
			chain := mineChain(t, 2)

			if res := database.ValidateChain(chain, 2); !res.Valid {
				t.Fatalf("\t%s\tTest 0:\tShould validate before tampering: %v", failed, res.Err())
			}
			t.Logf("\t%s\tTest 0:\tShould validate before tampering.", success)

			chain[1].Trans[0].Amount = 11

			res := database.ValidateChain(chain, 2)
			if res.Valid || res.Err().Error() != "hash mismatch at index 1" {
				t.Fatalf("\t%s\tTest 0:\tShould fail with a hash mismatch at index 1: %v", failed, res.Err())
			}
			t.Logf("\t%s\tTest 0:\tShould fail with a hash mismatch at index 1.", success)

			data, err := json.Marshal(res)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to marshal the result: %v", failed, err)
			}
			exp := `{"valid":false,"failure":{"index":1,"invariant":"hash mismatch"}}`
			if string(data) != exp {
				t.Fatalf("\t%s\tTest 0:\tShould marshal the result as %s, got %s", failed, exp, data)
			}
			t.Logf("\t%s\tTest 0:\tShould marshal the result with a readable invariant.", success)
		}
	}
}

// =============================================================================

func Test_SignedTx(t *testing.T) {
	seed, _ := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	kp, err := signature.GenerateKey(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	tx := database.Tx{
		Sender:    kp.Address(),
		Receiver:  "3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c",
		Amount:    100,
		TimeStamp: goldenTime,
	}

	signedTx, err := tx.Sign(kp)
	if err != nil {
		t.Fatalf("Should be able to sign the transaction: %s", err)
	}

	flip := func(s string, i int) string {
		b, _ := hex.DecodeString(s)
		b[i] ^= 0x01
		return hex.EncodeToString(b)
	}

	t.Log("Given the need to authenticate signed transactions.")
	{
		t.Logf("\tTest 0:\tWhen verifying an untouched transaction.")
		{
			if !signedTx.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould verify.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould verify.", success)

			if signedTx.PublicKey != kp.Address() || len(signedTx.Signature) != 2*signature.SignatureLength {
				t.Fatalf("\t%s\tTest 0:\tShould carry the hex key and signature.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the hex key and signature.", success)
		}

		t.Logf("\tTest 1:\tWhen flipping any byte of the signature.")
		{
			for i := range signature.SignatureLength {
				bad := signedTx
				bad.Signature = flip(signedTx.Signature, i)
				if bad.Verify() {
					t.Fatalf("\t%s\tTest 1:\tShould not verify with byte %d flipped.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould not verify with any signature byte flipped.", success)
		}

		t.Logf("\tTest 2:\tWhen flipping any byte of the public key.")
		{
			for i := range signature.PublicKeyLength {
				bad := signedTx
				bad.PublicKey = flip(signedTx.PublicKey, i)
				if bad.Verify() {
					t.Fatalf("\t%s\tTest 2:\tShould not verify with byte %d flipped.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 2:\tShould not verify with any public key byte flipped.", success)
		}

		t.Logf("\tTest 3:\tWhen the fields are not valid hex or the wrong size.")
		{
			bad := []database.SignedTx{
				{Tx: tx, Signature: "invalid_signature", PublicKey: signedTx.PublicKey},
				{Tx: tx, Signature: signedTx.Signature, PublicKey: "invalid_key"},
				{Tx: tx, Signature: signedTx.Signature[:126], PublicKey: signedTx.PublicKey},
				{Tx: tx, Signature: signedTx.Signature, PublicKey: signedTx.PublicKey + "00"},
				{Tx: tx},
			}
			for i, b := range bad {
				if b.Verify() {
					t.Fatalf("\t%s\tTest 3:\tShould not verify malformed value %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 3:\tShould not verify malformed values.", success)
		}

		t.Logf("\tTest 4:\tWhen the transaction changes after signing.")
		{
			bad := signedTx
			bad.Tx.Amount = 101
			if bad.Verify() {
				t.Fatalf("\t%s\tTest 4:\tShould not verify a changed amount.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould not verify a changed amount.", success)
		}
	}
}
