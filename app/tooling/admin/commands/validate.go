package commands

import (
	"fmt"
	"io"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// Validate checks the linkage and hashes of the blocks in storage and
// reports the first block that fails.
func Validate(w io.Writer, strg database.Storage) error {
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return err
	}

	if idx := chain.ValidateChain(blocks); idx >= 0 {
		fmt.Fprintf(w, "chain invalid at block %d of %d\n", idx, len(blocks))
		return fmt.Errorf("block %d failed validation", idx)
	}

	fmt.Fprintf(w, "chain valid: %d blocks\n", len(blocks))
	return nil
}
