package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// MaxDifficulty is the number of hex characters in a block hash. A higher
// difficulty can never be solved.
const MaxDifficulty = 64

// ErrInvalidDifficulty is returned when the difficulty can never be solved.
var ErrInvalidDifficulty = fmt.Errorf("difficulty must be between 0 and %d", MaxDifficulty)

// ErrNonceExhausted is returned when every nonce value was tried without
// finding a solution.
var ErrNonceExhausted = errors.New("nonce space exhausted")

// =============================================================================

// Block represents a group of transactions batched together. The json field
// order matches the stored layout other implementations expect.
type Block struct {
	Index     uint64 `json:"index"`         // Position of the block in the chain.
	TimeStamp int64  `json:"timestamp"`     // Unix seconds when mining started.
	PrevHash  string `json:"previous_hash"` // Hash of the previous block in the chain.
	Hash      string `json:"hash"`          // Hash of this block's fields.
	Nonce     uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	Trans     []Tx   `json:"transactions"`  // Transactions in the order they were mined.
}

// CalculateHash re-derives the hash from the block's stored fields.
func (b Block) CalculateHash() string {
	return signature.Hash(b.Index, uint64(b.TimeStamp), EncodeTxs(b.Trans), b.PrevHash, b.Nonce)
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%d:%s", b.Index, short(b.Hash))
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Index      uint64
	PrevHash   string
	Difficulty uint
	Trans      []Tx
	Now        func() time.Time
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The timestamp is taken once before the
// search starts. Nonces are tried from zero upward, so the result for a given
// timestamp is always the same block. Cancelling the context stops the search.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb, err := newBlock(args)
	if err != nil {
		return Block{}, err
	}

	ev := eventHandler(args.EvHandler)

	ev("database: POW: MINING: started: blk[%d]", nb.Index)
	defer ev("database: POW: MINING: completed: blk[%d]", nb.Index)

	hasher := signature.NewHasher(nb.Index, uint64(nb.TimeStamp), EncodeTxs(nb.Trans), nb.PrevHash)
	done := ctx.Done()

	var attempts uint64
	for nonce := uint64(0); ; nonce++ {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		select {
		case <-done:
			ev("database: POW: MINING: CANCELLED")
			return Block{}, ctx.Err()
		default:
		}

		hash := hasher.Sum(nonce)
		if isHashSolved(args.Difficulty, hash) {
			nb.Nonce = nonce
			nb.Hash = hash

			ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", short(nb.PrevHash), short(hash), attempts)
			return nb, nil
		}

		if nonce == math.MaxUint64 {
			return Block{}, ErrNonceExhausted
		}
	}
}

// POWParallel performs the same search as POW across the specified number of
// goroutines. Each goroutine walks its own stride of the nonce space and the
// lowest solving nonce wins, so the block produced is identical to what POW
// produces for the same timestamp.
func POWParallel(ctx context.Context, args POWArgs, workers int) (Block, error) {
	if workers <= 1 {
		return POW(ctx, args)
	}

	nb, err := newBlock(args)
	if err != nil {
		return Block{}, err
	}

	ev := eventHandler(args.EvHandler)

	ev("database: POWParallel: MINING: started: blk[%d]: workers[%d]", nb.Index, workers)
	defer ev("database: POWParallel: MINING: completed: blk[%d]", nb.Index)

	txJSON := EncodeTxs(nb.Trans)
	stride := uint64(workers)
	done := ctx.Done()

	// best holds the lowest solving nonce found so far. Every goroutine
	// keeps searching its stride until it passes best, which guarantees all
	// nonces below the final answer have been tried.
	var best atomic.Uint64
	best.Store(math.MaxUint64)

	var found atomic.Bool

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func(start uint64) {
			defer wg.Done()

			hasher := signature.NewHasher(nb.Index, uint64(nb.TimeStamp), txJSON, nb.PrevHash)

			for nonce := start; nonce < best.Load(); nonce += stride {
				select {
				case <-done:
					return
				default:
				}

				if isHashSolved(args.Difficulty, hasher.Sum(nonce)) {
					found.Store(true)
					for {
						cur := best.Load()
						if nonce >= cur || best.CompareAndSwap(cur, nonce) {
							return
						}
					}
				}

				if nonce > math.MaxUint64-stride {
					return
				}
			}
		}(uint64(w))
	}

	wg.Wait()

	// A cancelled search may have stopped before lower nonces were checked,
	// so the answer can't be trusted even if one was found.
	if err := ctx.Err(); err != nil {
		ev("database: POWParallel: MINING: CANCELLED")
		return Block{}, err
	}

	if !found.Load() {
		return Block{}, ErrNonceExhausted
	}

	nb.Nonce = best.Load()
	nb.Hash = signature.Hash(nb.Index, uint64(nb.TimeStamp), txJSON, nb.PrevHash, nb.Nonce)

	ev("database: POWParallel: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", short(nb.PrevHash), short(nb.Hash), nb.Nonce)

	return nb, nil
}

// =============================================================================

// newBlock constructs the block to be mined with its timestamp fixed.
func newBlock(args POWArgs) (Block, error) {
	if args.Difficulty > MaxDifficulty {
		return Block{}, ErrInvalidDifficulty
	}

	now := args.Now
	if now == nil {
		now = time.Now
	}

	// Never store a nil slice so the block serializes the same way before
	// and after a round trip through storage.
	trans := make([]Tx, len(args.Trans))
	copy(trans, args.Trans)

	nb := Block{
		Index:     args.Index,
		TimeStamp: now().UTC().Unix(),
		PrevHash:  args.PrevHash,
		Trans:     trans,
	}

	return nb, nil
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if difficulty > uint(len(hash)) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

// eventHandler returns a handler that is always safe to call.
func eventHandler(ev func(v string, args ...any)) func(v string, args ...any) {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
