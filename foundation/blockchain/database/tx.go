package database

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/Jeston10/JestoGP9Te/foundation/validate"
)

// Signer represents the behavior required to sign a transaction.
type Signer interface {
	Sign(message []byte) ([]byte, error)
}

// =============================================================================

// Tx is the transactional information between two parties. Amount is in
// minor units so hashing and sums never drift.
type Tx struct {
	Sender    string `json:"sender" validate:"required"`    // Address of the account sending the value.
	Recipient string `json:"recipient" validate:"required"` // Address of the account receiving the value.
	Amount    uint64 `json:"amount" validate:"gt=0"`        // Value transferred, in minor units.
	Signature []byte `json:"signature,omitempty"`           // Absent until the transaction is signed.
}

// NewTx constructs a new transaction and validates the amount is positive
// and both parties are provided.
func NewTx(sender string, recipient string, amount uint64) (Tx, error) {
	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	if err := validate.Check(tx); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// Hash returns the content hash for the transaction. The canonical input is
// sender ‖ recipient ‖ amount in base 10 with no separators. The signature is
// never part of the hash.
func (tx Tx) Hash() string {
	return signature.Hash(tx.Sender + tx.Recipient + strconv.FormatUint(tx.Amount, 10))
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two transactions. Same content and same signature make the
// two transactions the same.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.Hash() == otherTx.Hash() && bytes.Equal(tx.Signature, otherTx.Signature)
}

// AttachSignature stores the signature with the transaction. The signature
// is not validated, call VerifySignature for that.
func (tx *Tx) AttachSignature(sig []byte) {
	tx.Signature = bytes.Clone(sig)
}

// Sign signs the content hash of the transaction with the signer and
// attaches the result.
func (tx *Tx) Sign(signer Signer) error {
	sig, err := signer.Sign([]byte(tx.Hash()))
	if err != nil {
		return err
	}

	tx.AttachSignature(sig)

	return nil
}

// IsSigned reports whether a signature has been attached.
func (tx Tx) IsSigned() bool {
	return len(tx.Signature) > 0
}

// VerifySignature checks the attached signature was produced over the content
// hash by the key matching the base64 encoded public key. An unsigned
// transaction does not verify.
func (tx Tx) VerifySignature(publicKey string) (bool, error) {
	if !tx.IsSigned() {
		return false, nil
	}

	return wallet.Verify(publicKey, []byte(tx.Hash()), tx.Signature)
}

// Clone returns a copy of the transaction that shares no memory with the
// original.
func (tx Tx) Clone() Tx {
	tx.Signature = bytes.Clone(tx.Signature)
	return tx
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", abbreviate(tx.Sender), abbreviate(tx.Recipient), tx.Amount)
}

// =============================================================================

// abbreviate shortens long addresses for log output.
func abbreviate(address string) string {
	const max = 12
	if len(address) <= max {
		return address
	}

	return address[:max] + "..."
}
