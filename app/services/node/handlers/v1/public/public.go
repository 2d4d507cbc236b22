// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitWalletTransaction adds a new signed transaction to the mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nst newSignedTx
	if err := web.Decode(r, &nst); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	signedTx := toDBSignedTx(nst)

	h.Log.Infow("submit wallet tran", "traceid", web.GetTraceID(ctx), "tx", signedTx)

	if err := h.State.SubmitWalletTransaction(signedTx); err != nil {
		switch {
		case errors.Is(err, mempool.ErrUnverified),
			errors.Is(err, state.ErrSenderMismatch),
			errors.Is(err, state.ErrDuplicate):
			return errs.NewTrusted(err, http.StatusBadRequest)
		default:
			return fmt.Errorf("submit: %w", err)
		}
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]signedTx, len(mempool))
	for i, tran := range mempool {
		trans[i] = signedTx{
			Tx:        h.toTx(tran.Tx),
			Signature: tran.Signature,
			PublicKey: tran.PublicKey,
		}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Blocks returns all the blocks in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.RetrieveBlocks()

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = h.toBlock(blk)
	}

	ci := chainInfo{
		LatestBlock: dbBlocks[len(dbBlocks)-1].Hash,
		Uncommitted: h.State.QueryMempoolLength(),
		Blocks:      blocks,
	}

	return web.Respond(ctx, w, ci, http.StatusOK)
}

// BlockByIndex returns the block at the specified index.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid index: %w", err), http.StatusBadRequest)
	}

	blk, err := h.State.RetrieveBlock(index)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("index[%d]: %w", index, err)
	}

	return web.Respond(ctx, w, h.toBlock(blk), http.StatusOK)
}

// Validate walks the entire chain and reports the first block that breaks
// a chain rule.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res := h.State.Validate()
	return web.Respond(ctx, w, res, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTx(dbTx database.Tx) tx {
	return tx{
		Sender:       dbTx.Sender,
		SenderName:   h.NS.Lookup(dbTx.Sender),
		Receiver:     dbTx.Receiver,
		ReceiverName: h.NS.Lookup(dbTx.Receiver),
		Amount:       dbTx.Amount,
		TimeStamp:    dbTx.TimeStamp,
	}
}

func (h Handlers) toBlock(blk database.Block) block {
	trans := make([]tx, len(blk.Trans))
	for i, tran := range blk.Trans {
		trans[i] = h.toTx(tran)
	}

	return block{
		Index:     blk.Index,
		TimeStamp: blk.TimeStamp,
		PrevHash:  blk.PrevHash,
		Hash:      blk.Hash,
		Nonce:     blk.Nonce,
		Trans:     trans,
	}
}
