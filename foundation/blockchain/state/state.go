// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

// ErrChainCorrupted is returned when the blocks loaded from storage don't
// form a valid chain.
var ErrChainCorrupted = errors.New("stored chain is corrupted")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis        genesis.Genesis
	Storage        database.Serializer
	SelectStrategy string
	Now            func() time.Time
	EvHandler      EventHandler
}

// State manages the blockchain database.
type State struct {
	genesis   genesis.Genesis
	evHandler EventHandler
	now       func() time.Time

	storage database.Serializer
	mempool *mempool.Mempool

	// appendMu serializes appends so two blocks are never mined on top of
	// the same parent. mu guards the blocks slice and the committed set and
	// is write locked only while a mined block is committed.
	appendMu  sync.Mutex
	mu        sync.RWMutex
	blocks    []database.Block
	committed map[string]struct{}

	Worker Worker
}

// New constructs the chain. Blocks found in storage are loaded and must
// validate. With empty storage a genesis block is mined at the configured
// difficulty and written out.
func New(ctx context.Context, cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyOldest
	}

	// Construct a mempool with the specified select strategy.
	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		now:       now,
		storage:   strg,
		mempool:   mp,
		committed: make(map[string]struct{}),
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	if len(blocks) > 0 {
		ev("state: New: loaded blocks[%d]", len(blocks))

		if res := database.ValidateChain(blocks, cfg.Genesis.Difficulty); !res.Valid {
			return nil, fmt.Errorf("%w: %w", ErrChainCorrupted, res.Err())
		}

		for _, block := range blocks {
			state.track(block)
		}

		return &state, nil
	}

	ev("state: New: mining genesis: difficulty[%d]", cfg.Genesis.Difficulty)

	args := database.POWArgs{
		Index:      0,
		PrevHash:   signature.ZeroHash,
		Difficulty: cfg.Genesis.Difficulty,
		Now:        now,
		EvHandler:  ev,
	}

	block, err := database.POWParallel(ctx, args, cfg.Genesis.MiningWorkers)
	if err != nil {
		return nil, fmt.Errorf("mining genesis: %w", err)
	}

	if err := strg.Write(block); err != nil {
		return nil, fmt.Errorf("writing genesis: %w", err)
	}

	state.track(block)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// track adds the block to the chain and records its transactions as
// committed. The caller must hold the write lock once the state is shared.
func (s *State) track(block database.Block) {
	s.blocks = append(s.blocks, block)

	for _, tx := range block.Trans {
		s.committed[tx.ID()] = struct{}{}
	}
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.storage.Close()
}

// Validate checks the entire chain against the chain rules. It never runs
// while a new block is being committed.
func (s *State) Validate() database.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.ValidateChain(s.blocks, s.genesis.Difficulty)
}
