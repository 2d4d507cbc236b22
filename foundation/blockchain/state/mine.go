package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are not enough transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// Append mines a block holding the specified transactions on top of the
// latest block and adds it to the chain. The block is only added once it is
// written to storage.
func (s *State) Append(ctx context.Context, trans []database.Tx) (database.Block, error) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	return s.appendBlock(ctx, trans)
}

// MineNewBlock takes the best transactions from the mempool and mines them
// into the next block of the chain. Mined transactions leave the mempool.
// The pick, the mining, and the removal happen under one append so two
// callers never mine the same transactions.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	signedTxs := s.mempool.PickBest(int(s.genesis.TransPerBlock))

	trans := make([]database.Tx, len(signedTxs))
	for i, tx := range signedTxs {
		trans[i] = tx.Tx
	}

	block, err := s.appendBlock(ctx, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: remove from mempool: blk[%s]", block)

	for _, tx := range signedTxs {
		s.mempool.Delete(tx)
	}

	return block, nil
}

// =============================================================================

// appendBlock mines and commits the next block. The caller must hold
// appendMu.
func (s *State) appendBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	latest := s.LatestBlock()

	args := database.POWArgs{
		Index:      latest.Index + 1,
		PrevHash:   latest.Hash,
		Difficulty: s.genesis.Difficulty,
		Trans:      trans,
		Now:        s.now,
		EvHandler:  s.evHandler,
	}

	block, err := database.POWParallel(ctx, args, s.genesis.MiningWorkers)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	if err := s.commit(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// commit writes the block to storage and then adds it to the chain.
func (s *State) commit(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: commit: write to storage: blk[%s]", block)

	if err := s.storage.Write(block); err != nil {
		return fmt.Errorf("writing block %d: %w", block.Index, err)
	}

	s.track(block)

	return nil
}
