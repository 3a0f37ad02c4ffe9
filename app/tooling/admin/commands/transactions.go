// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"io"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// Blocks prints a line for every block in storage.
func Blocks(w io.Writer, strg database.Storage) error {
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return err
	}

	for _, blk := range blocks {
		fmt.Fprintf(w, "Block: %d  Hash: %s  Prev: %s  Nonce: %d  Trans: %d\n",
			blk.Header.Number, blk.Hash, blk.Header.PrevBlockHash, blk.Header.Nonce, len(blk.Trans))
	}

	return nil
}

// Transactions prints every committed transaction. When an address is
// provided only transactions it sent or received are printed.
func Transactions(w io.Writer, address string, strg database.Storage) error {
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return err
	}

	for _, blk := range blocks {
		for _, tx := range blk.Trans {
			if address != "" && tx.Sender != address && tx.Recipient != address {
				continue
			}

			fmt.Fprintf(w, "Block: %d  Hash: %s  %s\n", blk.Header.Number, tx.Hash(), tx)
		}
	}

	return nil
}
