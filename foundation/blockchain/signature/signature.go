// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ZeroHash is the previous hash recorded by the genesis block.
const ZeroHash string = "0"

// Sizes of the fixed byte layouts required by the Ed25519 scheme.
const (
	SeedLength      = ed25519.SeedSize
	PublicKeyLength = ed25519.PublicKeySize
	SignatureLength = ed25519.SignatureSize
)

// =============================================================================

// Hash returns the lowercase hex encoded SHA-256 digest of a block's fields.
// The fields are concatenated with no separators in this exact order: index,
// timestamp, transactions json, previous hash, nonce. Any change to this
// layout breaks hash compatibility with every other implementation.
func Hash(index uint64, timeStamp uint64, txJSON string, prevHash string, nonce uint64) string {
	return NewHasher(index, timeStamp, txJSON, prevHash).Sum(nonce)
}

// Hasher produces block hashes for a fixed set of block fields where only the
// nonce varies. It keeps the encoded prefix around so the mining loop doesn't
// rebuild it on every attempt. A Hasher is not safe for concurrent use.
type Hasher struct {
	buf    []byte
	prefix int
}

// NewHasher constructs a Hasher for the specified block fields.
func NewHasher(index uint64, timeStamp uint64, txJSON string, prevHash string) *Hasher {
	buf := make([]byte, 0, 2*20+len(txJSON)+len(prevHash)+20)
	buf = strconv.AppendUint(buf, index, 10)
	buf = strconv.AppendUint(buf, timeStamp, 10)
	buf = append(buf, txJSON...)
	buf = append(buf, prevHash...)

	return &Hasher{
		buf:    buf,
		prefix: len(buf),
	}
}

// Sum returns the block hash for the specified nonce.
func (h *Hasher) Sum(nonce uint64) string {
	h.buf = strconv.AppendUint(h.buf[:h.prefix], nonce, 10)

	sum := sha256.Sum256(h.buf)
	return hex.EncodeToString(sum[:])
}

// =============================================================================

// PublicKey is the 32 byte Ed25519 verifying key.
type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes a hex encoded public key. The decoded value must be
// exactly PublicKeyLength bytes.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if err := decodeFixed(s, pk[:]); err != nil {
		return PublicKey{}, fmt.Errorf("public key: %w", err)
	}

	return pk, nil
}

// String returns the lowercase hex encoding of the key. This is also the
// address of the account that owns the key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// Signature is the 64 byte Ed25519 signature.
type Signature [SignatureLength]byte

// ParseSignature decodes a hex encoded signature. The decoded value must be
// exactly SignatureLength bytes.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	if err := decodeFixed(s, sig[:]); err != nil {
		return Signature{}, fmt.Errorf("signature: %w", err)
	}

	return sig, nil
}

// String returns the lowercase hex encoding of the signature.
func (sig Signature) String() string {
	return hex.EncodeToString(sig[:])
}

// Verify reports whether sig is a valid signature of data by the owner of
// the public key. Keys that are not valid curve points simply fail.
func Verify(pk PublicKey, data []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), data, sig[:])
}

// =============================================================================

// KeyPair holds an Ed25519 signing key and the verifying key derived from it.
// The only way to construct one is from a seed, so the public half is always
// the counterpart of the private half.
type KeyPair struct {
	privateKey ed25519.PrivateKey
	publicKey  PublicKey
}

// GenerateKey reads a SeedLength byte seed from the entropy source and
// derives the key pair from it. Callers normally pass crypto/rand.Reader.
func GenerateKey(entropy io.Reader) (KeyPair, error) {
	if entropy == nil {
		return KeyPair{}, errors.New("entropy source is required")
	}

	var seed [SeedLength]byte
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return KeyPair{}, fmt.Errorf("reading seed: %w", err)
	}

	return newKeyPair(seed), nil
}

// PublicKey returns the verifying key.
func (kp KeyPair) PublicKey() PublicKey {
	return kp.publicKey
}

// Address returns the lowercase hex encoding of the verifying key.
func (kp KeyPair) Address() string {
	return kp.publicKey.String()
}

// Sign produces a signature over the exact bytes provided.
func (kp KeyPair) Sign(data []byte) (Signature, error) {
	if len(kp.privateKey) != ed25519.PrivateKeySize {
		return Signature{}, errors.New("key pair is not initialized")
	}

	var sig Signature
	copy(sig[:], ed25519.Sign(kp.privateKey, data))

	return sig, nil
}

// =============================================================================

// SaveKey writes the seed of the key pair to the specified file as hex.
func SaveKey(path string, kp KeyPair) error {
	if len(kp.privateKey) != ed25519.PrivateKeySize {
		return errors.New("key pair is not initialized")
	}

	data := hex.EncodeToString(kp.privateKey.Seed())
	return os.WriteFile(path, []byte(data), 0600)
}

// LoadKey reads a hex encoded seed from the specified file and derives the
// key pair from it.
func LoadKey(path string) (KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyPair{}, err
	}

	var seed [SeedLength]byte
	if err := decodeFixed(strings.TrimSpace(string(data)), seed[:]); err != nil {
		return KeyPair{}, fmt.Errorf("seed file %s: %w", path, err)
	}

	return newKeyPair(seed), nil
}

// =============================================================================

// newKeyPair derives the key pair for the seed.
func newKeyPair(seed [SeedLength]byte) KeyPair {
	privateKey := ed25519.NewKeyFromSeed(seed[:])

	var pk PublicKey
	copy(pk[:], privateKey[SeedLength:])

	return KeyPair{
		privateKey: privateKey,
		publicKey:  pk,
	}
}

// decodeFixed decodes the hex string into dst, requiring an exact fit.
func decodeFixed(s string, dst []byte) error {
	if hex.DecodedLen(len(s)) != len(dst) {
		return fmt.Errorf("invalid length, got %d hex chars, exp %d", len(s), hex.EncodedLen(len(dst)))
	}

	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return err
	}

	return nil
}
