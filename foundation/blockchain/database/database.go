// Package database provides the data model of the blockchain: transactions,
// blocks and the proof of work that seals them. It also defines the contract
// storage implementations follow to persist blocks.
package database

import (
	"errors"
	"fmt"
)

// ErrBlockNotFound is returned by storage when a block number doesn't exist.
var ErrBlockNotFound = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain. Blocks
// are written in order starting with the genesis block at number 0.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// ReadAll walks the storage from the genesis block and returns every block
// it holds in order.
func ReadAll(storage Storage) ([]Block, error) {
	var blocks []Block

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, fmt.Errorf("reading block %d: %w", len(blocks), err)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}
