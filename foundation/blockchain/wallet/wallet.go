// Package wallet provides key management for the blockchain. A Wallet holds
// a secp256k1 key pair and can sign arbitrary messages. Verification only
// needs the encoded public key, so it is a package level function.
package wallet

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// Set of error variables for the wallet. Callers can tell a usage bug
// (no keys yet) apart from an environment or crypto failure.
var (
	ErrKeyNotInitialized = errors.New("wallet keys have not been generated")
	ErrKeyGeneration     = errors.New("key generation failed")
	ErrSigning           = errors.New("signing failed")
	ErrVerification      = errors.New("verification failed")
)

// =============================================================================

// Wallet maintains a key pair. The zero keys state is valid and most
// operations return ErrKeyNotInitialized until GenerateKeyPair is called.
type Wallet struct {
	mu         sync.RWMutex
	random     io.Reader
	privateKey *ecdsa.PrivateKey
}

// New constructs a wallet with no keys.
func New(options ...func(w *Wallet)) *Wallet {
	w := Wallet{
		random: rand.Reader,
	}

	for _, option := range options {
		option(&w)
	}

	return &w
}

// WithRandom changes the source of entropy used to generate keys.
func WithRandom(random io.Reader) func(w *Wallet) {
	return func(w *Wallet) {
		w.random = random
	}
}

// FromPrivateKey constructs a wallet from a base64 encoded private key as
// produced by PrivateKeyEncoded.
func FromPrivateKey(encoded string) (*Wallet, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}

	privateKey, err := crypto.ToECDSA(data)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	w := New()
	w.privateKey = privateKey

	return w, nil
}

// Load reads a hex encoded private key file from disk.
func Load(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}

	w := New()
	w.privateKey = privateKey

	return w, nil
}

// Save writes the private key to disk hex encoded with restrictive
// permissions.
func (w *Wallet) Save(path string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.privateKey == nil {
		return ErrKeyNotInitialized
	}

	return crypto.SaveECDSA(path, w.privateKey)
}

// GenerateKeyPair produces a fresh key pair, replacing any keys the wallet
// already holds. The address changes with it.
func (w *Wallet) GenerateKeyPair() error {
	privateKey, err := ecdsa.GenerateKey(crypto.S256(), w.random)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.privateKey = privateKey

	return nil
}

// Sign hashes the message with SHA-256 and signs the digest. The signature
// is 65 bytes in the [R|S|V] format.
func (w *Wallet) Sign(message []byte) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.privateKey == nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, ErrKeyNotInitialized)
	}

	digest := sha256.Sum256(message)

	sig, err := crypto.Sign(digest[:], w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return sig, nil
}

// Address returns the address for this wallet. The address is the encoded
// public key itself.
func (w *Wallet) Address() (string, error) {
	return w.PublicKeyEncoded()
}

// PublicKeyEncoded returns the uncompressed public key base64 encoded.
func (w *Wallet) PublicKeyEncoded() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.privateKey == nil {
		return "", ErrKeyNotInitialized
	}

	return base64.StdEncoding.EncodeToString(crypto.FromECDSAPub(&w.privateKey.PublicKey)), nil
}

// PrivateKeyEncoded returns the private key base64 encoded. Only call this
// when the secret is explicitly needed.
func (w *Wallet) PrivateKeyEncoded() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.privateKey == nil {
		return "", ErrKeyNotInitialized
	}

	return base64.StdEncoding.EncodeToString(crypto.FromECDSA(w.privateKey)), nil
}

// =============================================================================

// Verify checks the signature was produced over the message by the private
// key that matches the base64 encoded public key. A signature that simply
// does not match returns false. Malformed keys or signatures return
// ErrVerification.
func Verify(publicKey string, message []byte, sig []byte) (bool, error) {
	pubBytes, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return false, fmt.Errorf("%w: decoding public key: %w", ErrVerification, err)
	}

	if _, err := crypto.UnmarshalPubkey(pubBytes); err != nil {
		return false, fmt.Errorf("%w: parsing public key: %w", ErrVerification, err)
	}

	// The recovery id is not needed for verification.
	switch len(sig) {
	case crypto.SignatureLength:
		sig = sig[:crypto.RecoveryIDOffset]
	case crypto.RecoveryIDOffset:
	default:
		return false, fmt.Errorf("%w: invalid signature length %d", ErrVerification, len(sig))
	}

	digest := sha256.Sum256(message)

	return crypto.VerifySignature(pubBytes, digest[:], sig), nil
}
