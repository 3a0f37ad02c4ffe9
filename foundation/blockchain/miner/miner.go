// Package miner builds the next block from the pending transactions of a
// chain and asks the chain to seal and append it.
package miner

import (
	"context"
	"errors"
	"sync"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions waiting to be mined.
var ErrNoTransactions = errors.New("no transactions in mempool")

// Chain represents the behavior the miner needs from a chain.
type Chain interface {
	NextBlock(transPerBlock int) (database.Block, bool)
	Append(ctx context.Context, block database.Block) (database.Block, error)
}

// EventHandler defines a function that is called when events
// occur in the processing of mining.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to construct a miner.
type Config struct {
	Chain         Chain
	TransPerBlock uint16 // Maximum transactions in a block, 0 takes them all.
	EvHandler     EventHandler
}

// Miner drives the creation of new blocks. Calls to Mine run one at a time.
type Miner struct {
	mu            sync.Mutex
	chain         Chain
	transPerBlock int
	evHandler     EventHandler
}

// New constructs a miner for the chain.
func New(cfg Config) *Miner {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	return &Miner{
		chain:         cfg.Chain,
		transPerBlock: int(cfg.TransPerBlock),
		evHandler:     ev,
	}
}

// Mine takes the pending transactions, builds the next block on top of the
// latest block and appends it to the chain. An empty pool is skipped with
// ErrNoTransactions. Errors from the chain are returned as is, a caller that
// races another appender decides whether to try again.
func (m *Miner) Mine(ctx context.Context) (database.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evHandler("miner: Mine: MINING: check mempool count")

	block, ok := m.chain.NextBlock(m.transPerBlock)
	if !ok {
		return database.Block{}, ErrNoTransactions
	}

	m.evHandler("miner: Mine: MINING: build block: blk[%d]: trans[%d]", block.Header.Number, len(block.Trans))

	blk, err := m.chain.Append(ctx, block)
	if err != nil {
		return database.Block{}, err
	}

	m.evHandler("miner: Mine: MINING: block appended: blk[%d]: hash[%s]", blk.Header.Number, blk.Hash)

	return blk, nil
}
