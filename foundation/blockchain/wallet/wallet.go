// Package wallet provides support for holding a key pair and producing
// signed transactions with it.
package wallet

import (
	"io"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// KeyExt is the file extension used for wallet seed files.
const KeyExt = ".ed25519"

// Wallet owns a single key pair. The address of the wallet is the hex
// encoded public key.
type Wallet struct {
	keyPair signature.KeyPair
	now     func() time.Time
}

// Option configures a wallet.
type Option func(w *Wallet)

// WithClock sets the clock used to timestamp new transactions.
func WithClock(now func() time.Time) Option {
	return func(w *Wallet) {
		w.now = now
	}
}

// New constructs a wallet with a key pair generated from the entropy source.
func New(entropy io.Reader, options ...Option) (*Wallet, error) {
	kp, err := signature.GenerateKey(entropy)
	if err != nil {
		return nil, err
	}

	return newWallet(kp, options), nil
}

// Load constructs a wallet from the seed file at the specified path.
func Load(path string, options ...Option) (*Wallet, error) {
	kp, err := signature.LoadKey(path)
	if err != nil {
		return nil, err
	}

	return newWallet(kp, options), nil
}

// Save writes the wallet's seed to the specified path.
func (w *Wallet) Save(path string) error {
	return signature.SaveKey(path, w.keyPair)
}

// Address returns the wallet address.
func (w *Wallet) Address() string {
	return w.keyPair.Address()
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() signature.PublicKey {
	return w.keyPair.PublicKey()
}

// CreateTx constructs a transaction from this wallet to the receiver,
// timestamped with the wallet clock.
func (w *Wallet) CreateTx(receiver string, amount uint64) database.Tx {
	return database.Tx{
		Sender:    w.Address(),
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: uint64(w.now().UTC().Unix()),
	}
}

// Sign signs the transaction with the wallet's private key.
func (w *Wallet) Sign(tx database.Tx) (database.SignedTx, error) {
	return tx.Sign(w.keyPair)
}

// =============================================================================

func newWallet(kp signature.KeyPair, options []Option) *Wallet {
	w := Wallet{
		keyPair: kp,
		now:     time.Now,
	}

	for _, option := range options {
		option(&w)
	}

	return &w
}
