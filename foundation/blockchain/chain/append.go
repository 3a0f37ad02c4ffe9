package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/validate"
)

// Append mines the block against the chain's difficulty and adds it to the
// chain. A block that doesn't reference the latest block fails with
// ErrPrecedingHashMismatch. The block is never stored unsealed. The
// transactions the block carries are removed from the pending pool, anything
// enqueued while mining stays pending.
func (c *Chain) Append(ctx context.Context, block database.Block) (database.Block, error) {
	c.appendMu.Lock()
	defer c.appendMu.Unlock()

	tip := c.LatestBlock()

	if block.Header.PrevBlockHash != tip.Hash {
		return database.Block{}, fmt.Errorf("%w: got %s, exp %s", ErrPrecedingHashMismatch, block.Header.PrevBlockHash, tip.Hash)
	}

	if block.Header.Number != tip.Header.Number+1 {
		return database.Block{}, fmt.Errorf("block number %d does not follow latest block %d", block.Header.Number, tip.Header.Number)
	}

	c.evHandler("chain: Append: MINING: perform POW: blk[%d]: trans[%d]", block.Header.Number, len(block.Trans))

	// Mining happens outside of mu so readers and enqueue are not blocked.
	blk := block.Clone()
	if err := blk.MineBlock(ctx, c.difficulty, database.EventHandler(c.evHandler)); err != nil {
		return database.Block{}, err
	}

	if err := blk.ValidateBlock(tip); err != nil {
		return database.Block{}, fmt.Errorf("validating block: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if latest := c.blocks[len(c.blocks)-1]; latest.Hash != tip.Hash {
		return database.Block{}, fmt.Errorf("%w: tip moved to %s while mining", ErrPrecedingHashMismatch, latest.Hash)
	}

	c.evHandler("chain: Append: write to storage: blk[%d]", blk.Header.Number)

	if err := c.storage.Write(blk); err != nil {
		return database.Block{}, fmt.Errorf("writing block: %w", err)
	}
	c.blocks = append(c.blocks, blk)

	removed := c.mempool.Delete(blk.Trans)
	c.evHandler("chain: Append: removed from mempool: trans[%d]: remaining[%d]", removed, c.mempool.Count())

	c.blockEvent(blk)

	return blk.Clone(), nil
}

// NextBlock builds the block that follows the latest block from the oldest
// pending transactions, at most transPerBlock of them when it's above 0. The
// pool and the tip are read together so a block built here can only be
// appended while its transactions are still pending. It reports false when
// the pool is empty.
func (c *Chain) NextBlock(transPerBlock int) (database.Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	howMany := -1
	if transPerBlock > 0 {
		howMany = transPerBlock
	}

	trans := c.mempool.PickBest(howMany)
	if len(trans) == 0 {
		return database.Block{}, false
	}

	tip := c.blocks[len(c.blocks)-1]

	return database.NewBlock(tip.Header.Number+1, trans, tip.Hash), true
}

// EnqueueTransaction adds the transaction to the end of the pending pool. The
// chain only checks the transaction is well formed, signatures are the
// caller's concern.
func (c *Chain) EnqueueTransaction(tx database.Tx) error {
	if err := validate.Check(tx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.mempool.Add(tx)
	c.evHandler("chain: EnqueueTransaction: tx[%s]: pool[%d]", tx, n)

	return nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (c *Chain) blockEvent(block database.Block) {
	blockHeaderJSON, err := json.Marshal(block.Header)
	if err != nil {
		blockHeaderJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	blockTransJSON, err := json.Marshal(block.Trans)
	if err != nil {
		blockTransJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	c.evHandler(`viewer: block: {"hash":%q,"header":%s,"trans":%s}`, block.Hash, string(blockHeaderJSON), string(blockTransJSON))
}
