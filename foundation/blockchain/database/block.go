package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/merkle"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded by the genesis block.
const GenesisPrevHash = "0"

// cancelCheckInterval is the number of nonce attempts between checks of
// the context for cancellation.
const cancelCheckInterval = 1_000

// ErrInvalidDifficulty is returned when a difficulty can't be satisfied by
// the hash length. It is a configuration error and is never corrected.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"index"`         // Block number in the chain, genesis is 0.
	TimeStamp     uint64 `json:"timestamp"`     // Time the block was created in unix milliseconds.
	PrevBlockHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TransRoot     string `json:"trans_root"`    // Merkle root of the transactions in this block.
	Nonce         uint64 `json:"nonce"`         // Value identified to solve the hash solution.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Hash   string      `json:"hash"`
	Trans  []Tx        `json:"trans"`
}

// NewBlock constructs a block ready to be mined. The transactions are copied
// so later changes to the caller's slice don't reach the block. The hash is
// calculated for a nonce of 0 and won't satisfy any difficulty yet.
func NewBlock(number uint64, trans []Tx, prevBlockHash string) Block {
	return newBlock(number, uint64(time.Now().UTC().UnixMilli()), trans, prevBlockHash)
}

// Genesis constructs the first block of a chain. The timestamp is provided
// so every process creating the chain from the same genesis information
// produces the same genesis hash.
func Genesis(date time.Time) Block {
	return newBlock(0, uint64(date.UTC().UnixMilli()), nil, GenesisPrevHash)
}

func newBlock(number uint64, timeStamp uint64, trans []Tx, prevBlockHash string) Block {
	cpy := make([]Tx, len(trans))
	for i, tx := range trans {
		cpy[i] = tx.Clone()
	}

	b := Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     timeStamp,
			PrevBlockHash: prevBlockHash,
			TransRoot:     merkle.RootHex(cpy),
			Nonce:         0,
		},
		Trans: cpy,
	}
	b.Hash = b.CalculateHash()

	return b
}

// CalculateHash returns the hash of the block from its current fields. The
// canonical input is number ‖ timestamp ‖ merkle root ‖ previous hash ‖ nonce
// with the integers written in base 10 and no separators. The merkle root is
// always recalculated from the transactions, never read from the header.
func (b Block) CalculateHash() string {
	return signature.Hash(b.hashPrefix(merkle.RootHex(b.Trans)) + strconv.FormatUint(b.Header.Nonce, 10))
}

// MineBlock performs the work of mining to find a nonce whose hash starts with
// difficulty zero characters. Pointer semantics are being used since a nonce
// is being discovered. The context is checked periodically so a long search
// can be cancelled.
func (b *Block) MineBlock(ctx context.Context, difficulty uint, ev EventHandler) error {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if difficulty > signature.HashLength {
		return fmt.Errorf("%w: difficulty %d exceeds hash length %d", ErrInvalidDifficulty, difficulty, signature.HashLength)
	}

	ev("database: MineBlock: MINING: started: blk[%d]: difficulty[%d]", b.Header.Number, difficulty)
	defer ev("database: MineBlock: MINING: completed: blk[%d]", b.Header.Number)

	// Everything but the nonce is fixed while mining.
	root := merkle.RootHex(b.Trans)
	b.Header.TransRoot = root
	prefix := b.hashPrefix(root)
	b.Hash = signature.Hash(prefix + strconv.FormatUint(b.Header.Nonce, 10))

	var attempts uint64
	for !IsHashSolved(difficulty, b.Hash) {
		attempts++

		if attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
			ev("database: MineBlock: MINING: CANCELLED: blk[%d]: attempts[%d]", b.Header.Number, attempts)
			return ctx.Err()
		}

		if attempts%1_000_000 == 0 {
			ev("database: MineBlock: MINING: blk[%d]: attempts[%d]", b.Header.Number, attempts)
		}

		b.Header.Nonce++
		b.Hash = signature.Hash(prefix + strconv.FormatUint(b.Header.Nonce, 10))
	}

	ev("database: MineBlock: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.Header.PrevBlockHash, b.Hash, attempts)

	return nil
}

// ValidateBlock takes a block and validates it against the block that
// precedes it in the chain.
func (b Block) ValidateBlock(previousBlock Block) error {
	if b.Header.Number != previousBlock.Header.Number+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, previousBlock.Header.Number+1)
	}

	if b.Header.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("previous block hash doesn't match our known previous, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash)
	}

	return b.ValidateHash()
}

// ValidateHash checks the stored hash and merkle root match what the block's
// fields produce.
func (b Block) ValidateHash() error {
	if root := merkle.RootHex(b.Trans); b.Header.TransRoot != root {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", b.Header.TransRoot, root)
	}

	if hash := b.CalculateHash(); b.Hash != hash {
		return fmt.Errorf("block hash does not match its contents, got %s, exp %s", b.Hash, hash)
	}

	return nil
}

// Proof returns the merkle proof for the transaction in this block.
func (b Block) Proof(tx Tx) ([]string, []int64, error) {
	tree, err := merkle.NewTree(b.Trans)
	if err != nil {
		return nil, nil, err
	}

	return tree.Proof(tx)
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	trans := make([]Tx, len(b.Trans))
	for i, tx := range b.Trans {
		trans[i] = tx.Clone()
	}
	b.Trans = trans

	return b
}

// IsGenesis reports whether this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Header.Number == 0 && b.Header.PrevBlockHash == GenesisPrevHash
}

// hashPrefix builds the part of the hash input that doesn't change while
// mining.
func (b Block) hashPrefix(transRoot string) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(b.Header.Number, 10))
	sb.WriteString(strconv.FormatUint(b.Header.TimeStamp, 10))
	sb.WriteString(transRoot)
	sb.WriteString(b.Header.PrevBlockHash)

	return sb.String()
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != signature.HashLength || difficulty > signature.HashLength {
		return false
	}

	return strings.TrimLeft(hash[:difficulty], "0") == ""
}
