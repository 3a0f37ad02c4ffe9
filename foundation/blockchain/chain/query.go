package chain

import (
	"fmt"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// LatestBlock returns a copy of the tip of the chain. The chain always holds
// at least the genesis block.
func (c *Chain) LatestBlock() database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1].Clone()
}

// Length returns the number of blocks in the chain, genesis included.
func (c *Chain) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// Snapshot returns a copy of every block in the chain. Changing the copy
// doesn't change the chain.
func (c *Chain) Snapshot() []database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]database.Block, len(c.blocks))
	for i, block := range c.blocks {
		blocks[i] = block.Clone()
	}

	return blocks
}

// BlockByNumber returns a copy of the specified block.
func (c *Chain) BlockByNumber(num uint64) (database.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if num >= uint64(len(c.blocks)) {
		return database.Block{}, fmt.Errorf("block %d: %w", num, database.ErrBlockNotFound)
	}

	return c.blocks[num].Clone(), nil
}

// Transactions returns every transaction sealed in the chain in block order.
func (c *Chain) Transactions() []database.Tx {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var trans []database.Tx
	for _, block := range c.blocks {
		for _, tx := range block.Trans {
			trans = append(trans, tx.Clone())
		}
	}

	return trans
}

// PendingTransactions returns a copy of the pending pool in arrival order.
func (c *Chain) PendingTransactions() []database.Tx {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.mempool.Copy()
}

// PendingCount returns the number of transactions in the pending pool.
func (c *Chain) PendingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.mempool.Count()
}
