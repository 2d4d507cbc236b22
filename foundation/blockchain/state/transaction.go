package state

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrSenderMismatch is returned when a transaction is signed by a key that
// doesn't belong to the sender.
var ErrSenderMismatch = errors.New("sender is not the signing public key")

// ErrDuplicate is returned when a transaction is already committed to the
// chain or already waiting in the mempool.
var ErrDuplicate = errors.New("transaction already submitted")

// SubmitWalletTransaction accepts a signed transaction from a wallet for
// inclusion in a future block.
func (s *State) SubmitWalletTransaction(signedTx database.SignedTx) error {
	if signedTx.Tx.Sender != signedTx.PublicKey {
		return ErrSenderMismatch
	}

	n, err := s.addToMempool(signedTx)
	if err != nil {
		return err
	}

	s.evHandler("state: SubmitWalletTransaction: tx[%s]: mempool[%d]", signedTx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// addToMempool rejects a replay of a known transaction before adding it to
// the mempool. The read lock is held so a commit can't slip in between the
// check and the add.
func (s *State) addToMempool(signedTx database.SignedTx) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.committed[signedTx.Tx.ID()]; exists {
		return 0, ErrDuplicate
	}

	if s.mempool.Contains(signedTx) {
		return 0, ErrDuplicate
	}

	return s.mempool.Upsert(signedTx)
}
