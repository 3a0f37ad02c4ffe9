package chain

import (
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// IsValid scans the whole chain and reports whether every block links to its
// predecessor and carries the hash its contents produce.
func (c *Chain) IsValid() bool {
	_, found := c.FirstInvalid()
	return !found
}

// FirstInvalid returns the number of the first block that fails validation.
// The boolean is false when the chain is valid.
func (c *Chain) FirstInvalid() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := validateBlocks(c.blocks)
	if err != nil {
		c.evHandler("chain: FirstInvalid: block[%d]: %s", idx, err)
		return idx, true
	}

	return -1, false
}

// =============================================================================

// ValidateChain checks the ordered blocks and returns the index of the first
// block that is not valid, or -1 when every block is.
func ValidateChain(blocks []database.Block) int {
	idx, _ := validateBlocks(blocks)
	return idx
}

// validateBlocks checks the stored hash of every block against its contents and
// the linkage of every block to the one before it.
func validateBlocks(blocks []database.Block) (int, error) {
	for i, block := range blocks {
		if i == 0 {
			if err := block.ValidateHash(); err != nil {
				return 0, err
			}
			continue
		}

		if err := block.ValidateBlock(blocks[i-1]); err != nil {
			return i, err
		}
	}

	return -1, nil
}
