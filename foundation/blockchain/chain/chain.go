// Package chain is the core API for the blockchain. It owns the sequence of
// sealed blocks and the pool of transactions waiting to be mined, and it
// enforces the rules for appending to the chain.
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/genesis"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/mempool"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/storage/memory"
)

// ErrPrecedingHashMismatch is returned when a block doesn't reference the
// hash of the latest block in the chain. It is never retried by the chain.
var ErrPrecedingHashMismatch = errors.New("preceding hash mismatch")

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the chain.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// Chain manages the blockchain. The mu lock guards the blocks and the pool.
// The appendMu lock makes appends run one at a time while leaving the chain
// readable and the pool writable during mining.
type Chain struct {
	appendMu sync.Mutex
	mu       sync.RWMutex

	difficulty uint
	evHandler  EventHandler

	blocks  []database.Block
	mempool *mempool.Mempool
	storage database.Storage
}

// New constructs a chain from the genesis information. Blocks already in
// storage are loaded and validated, otherwise the genesis block is written.
// Without storage the chain lives in memory.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	difficulty := uint(cfg.Genesis.Difficulty)
	if difficulty < 1 || difficulty > signature.HashLength {
		return nil, fmt.Errorf("%w: difficulty %d must be between 1 and %d", database.ErrInvalidDifficulty, difficulty, signature.HashLength)
	}

	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	blocks, err := load(strg, cfg.Genesis, ev)
	if err != nil {
		return nil, err
	}

	c := Chain{
		difficulty: difficulty,
		evHandler:  ev,
		blocks:     blocks,
		mempool:    mempool.New(),
		storage:    strg,
	}

	return &c, nil
}

// load reads the blocks from storage, or writes the genesis block when the
// storage is empty.
func load(strg database.Storage, gen genesis.Genesis, ev EventHandler) ([]database.Block, error) {
	genesisBlock := database.Genesis(gen.Date)

	blocks, err := database.ReadAll(strg)
	if err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	if len(blocks) == 0 {
		ev("chain: load: writing genesis block: hash[%s]", genesisBlock.Hash)

		if err := strg.Write(genesisBlock); err != nil {
			return nil, fmt.Errorf("writing genesis block: %w", err)
		}

		return []database.Block{genesisBlock}, nil
	}

	if blocks[0].Hash != genesisBlock.Hash {
		return nil, fmt.Errorf("stored genesis block %s does not match genesis %s", blocks[0].Hash, genesisBlock.Hash)
	}

	if idx, err := validateBlocks(blocks); err != nil {
		return nil, fmt.Errorf("stored block %d is invalid: %w", idx, err)
	}

	ev("chain: load: loaded blocks[%d]", len(blocks))

	return blocks, nil
}

// Close closes the storage behind the chain.
func (c *Chain) Close() error {
	return c.storage.Close()
}

// Difficulty returns the number of leading zeros required to seal a block.
func (c *Chain) Difficulty() uint {
	return c.difficulty
}
