package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// =============================================================================

// Tx is the transactional information between two parties. The field order
// is part of the hashing and signing contract and must not change.
type Tx struct {
	Sender    string `json:"sender"`    // Address of the account sending the value.
	Receiver  string `json:"receiver"`  // Address of the account receiving the value.
	Amount    uint64 `json:"amount"`    // Monetary value moved by this transaction.
	TimeStamp uint64 `json:"timestamp"` // Unix seconds when the transaction was created.
}

// Encode returns the canonical json encoding of the transaction. These are
// the exact bytes that get signed.
func (tx Tx) Encode() []byte {
	return appendTx(nil, tx)
}

// ID returns the hex SHA-256 digest of the canonical encoding. Ed25519
// signatures are deterministic and the sender must be the signing key, so
// the ID names one signed transfer however its signature hex is cased.
func (tx Tx) ID() string {
	sum := sha256.Sum256(tx.Encode())
	return hex.EncodeToString(sum[:])
}

// Sign uses the specified key pair to sign the transaction.
func (tx Tx) Sign(kp signature.KeyPair) (SignedTx, error) {
	sig, err := kp.Sign(tx.Encode())
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig.String(),
		PublicKey: kp.PublicKey().String(),
	}

	return signedTx, nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", short(tx.Sender), short(tx.Receiver), tx.Amount)
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx        Tx     `json:"transaction"`
	Signature string `json:"signature"`  // Hex encoding of the 64 byte signature.
	PublicKey string `json:"public_key"` // Hex encoding of the 32 byte verifying key.
}

// Verify reports whether the signature is valid for the transaction and the
// public key carried with it. Malformed hex, bad lengths, and invalid keys all
// report false. No wallet is required.
func (tx SignedTx) Verify() bool {
	pk, err := signature.ParsePublicKey(tx.PublicKey)
	if err != nil {
		return false
	}

	sig, err := signature.ParseSignature(tx.Signature)
	if err != nil {
		return false
	}

	return signature.Verify(pk, tx.Tx.Encode(), sig)
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	return fmt.Sprintf("%s:%s", tx.Tx, short(tx.Signature))
}

// =============================================================================

// short trims long hex values for log output.
func short(s string) string {
	const max = 10
	if len(s) <= max {
		return s
	}
	return s[:max]
}
