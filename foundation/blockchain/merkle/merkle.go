// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree for validation
// support for the blockchain. Leaves and nodes carry hex encoded digests and
// parents hash the concatenation of their children's hex strings.
package merkle

import (
	"errors"
	"fmt"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
)

// EmptyRoot is the root reported for an empty set of values.
const EmptyRoot = signature.ZeroHash

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() string
	Equals(other T) bool
}

// RootHex calculates the merkle root for the ordered values without keeping
// the tree around. An empty set returns EmptyRoot.
func RootHex[T Hashable[T]](values []T) string {
	if len(values) == 0 {
		return EmptyRoot
	}

	tree, err := NewTree(values)
	if err != nil {
		return EmptyRoot
	}

	return tree.MerkleRoot
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root         *Node[T]
	Leafs        []*Node[T]
	MerkleRoot   string
	hashStrategy func(data string) string
}

// WithHashStrategy is used to change the default hash strategy of using
// signature.Hash when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashStrategy func(data string) string) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		hashStrategy: signature.Hash[string],
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return errors.New("cannot construct tree with no content")
	}

	leafs := make([]*Node[T], 0, len(values))
	for _, value := range values {
		leafs = append(leafs, &Node[T]{
			Hash:  value.Hash(),
			Value: value,
			leaf:  true,
			Tree:  t,
		})
	}

	// A single value is its own root.
	root := leafs[0]
	if len(leafs) > 1 {
		root = buildIntermediate(leafs, t)
	}

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// data that it currently holds in the leaves.
func (t *Tree[T]) Rebuild() error {
	return t.Generate(t.Values())
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving a value is in the tree.
//
// Hash the data in question and know the merkle tree root hash. Walk the
// proof from the leaf upward. An order of 0 says the proof hash comes first
// in the concatenation, an order of 1 says it comes second.
//
//	h = dataHash
//	h = Hash(proof[0] + h)  -- order 0
//	h = Hash(h + proof[1])  -- order 1
//
// The calculated h should match the merkle root.
func (t *Tree[T]) Proof(data T) ([]string, []int64, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		var merkleProof []string
		var order []int64
		nodeParent := node.Parent

		for nodeParent != nil {
			if nodeParent.Left == node {
				merkleProof = append(merkleProof, nodeParent.Right.Hash)
				order = append(order, 1) // right leaf, concat second.
			} else {
				merkleProof = append(merkleProof, nodeParent.Left.Hash)
				order = append(order, 0) // left leaf, concat first.
			}
			node = nodeParent
			nodeParent = nodeParent.Parent
		}

		return merkleProof, order, nil
	}

	return nil, nil, errors.New("unable to find data in tree")
}

// VerifyProof walks the proof produced by Proof for the specified data hash
// and reports whether it arrives at the root.
func (t *Tree[T]) VerifyProof(dataHash string, proof []string, order []int64) bool {
	if len(proof) != len(order) {
		return false
	}

	h := dataHash
	for i := range proof {
		switch order[i] {
		case 0:
			h = t.hashStrategy(proof[i] + h)
		default:
			h = t.hashStrategy(h + proof[i])
		}
	}

	return h == t.MerkleRoot
}

// Verify validates the hashes at each level of the tree and returns an error
// if the resulting hash at the root of the tree doesn't match the root hash.
func (t *Tree[T]) Verify() error {
	calculatedMerkleRoot := t.Root.verify()

	if t.MerkleRoot != calculatedMerkleRoot {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and if the
// hashes are valid for that data. It checks the merkle root calculated on the
// critical path for the data matches every stored hash along the way.
func (t *Tree[T]) VerifyData(data T) error {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		currentParent := node.Parent
		for currentParent != nil {
			h := t.hashStrategy(currentParent.Left.CalculateHash() + currentParent.Right.CalculateHash())
			if h != currentParent.Hash {
				return errors.New("merkle root is not equivalent to the merkle root calculated on the critical path")
			}

			currentParent = currentParent.Parent
		}

		return nil
	}

	return errors.New("unable to find data in tree")
}

// Values returns the values stored in the leaves in their original order.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, leaf := range t.Leafs {
		values = append(values, leaf.Value)
	}

	return values
}

// RootHex returns the merkle root hex encoded string.
func (t *Tree[T]) RootHex() string {
	return t.MerkleRoot
}

// String returns a string representation of the tree. Only leaf nodes are
// included in the output.
func (t *Tree[T]) String() string {
	s := ""

	for _, l := range t.Leafs {
		s += fmt.Sprint(l)
		s += "\n"
	}

	return s
}

// MarshalText implements the TextMarshaler interface and produces a panic
// if anyone tries to marshal the Merkle tree. Use the Values function to
// return a slice that can be marshaled.
func (t *Tree[T]) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a hash, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   string
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() string {
	if n.leaf {
		return n.Value.Hash()
	}

	return n.Tree.hashStrategy(n.Left.verify() + n.Right.verify())
}

// CalculateHash is a helper function that calculates the hash of the node.
func (n *Node[T]) CalculateHash() string {
	if n.leaf {
		return n.Value.Hash()
	}

	return n.Tree.hashStrategy(n.Left.Hash + n.Right.Hash)
}

// String returns a string representation of the node.
func (n *Node[T]) String() string {
	return fmt.Sprintf("%t %t %v %v", n.leaf, n.dup, n.Hash, n.Value)
}

// =============================================================================

// buildIntermediate is a helper function that for a given list of nodes,
// constructs the next level of the tree until a single root remains. When a
// level has an odd count, the last node is paired with itself.
func buildIntermediate[T Hashable[T]](nl []*Node[T], t *Tree[T]) *Node[T] {
	nodes := make([]*Node[T], 0, (len(nl)+1)/2)

	for i := 0; i < len(nl); i += 2 {
		left, right := i, i+1
		dup := false
		if i+1 == len(nl) {
			right = i
			dup = true
		}

		n := Node[T]{
			Left:  nl[left],
			Right: nl[right],
			Hash:  t.hashStrategy(nl[left].Hash + nl[right].Hash),
			Tree:  t,
			dup:   dup,
		}

		nodes = append(nodes, &n)
		nl[left].Parent = &n
		nl[right].Parent = &n
	}

	if len(nodes) == 1 {
		return nodes[0]
	}

	return buildIntermediate(nodes, t)
}
