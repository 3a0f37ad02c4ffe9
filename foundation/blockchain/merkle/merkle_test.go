package merkle_test

import (
	"strings"
	"testing"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/merkle"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Data uses the signature hashing for the merkle tree.
type Data struct {
	x string
}

// Hash hashes the value.
func (d Data) Hash() string {
	return signature.Hash(d.x)
}

// Equals tests for equality of two piece of data.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

func h(s string) string {
	return signature.Hash(s)
}

// =============================================================================

func Test_MerkleRoot(t *testing.T) {
	a, b, c := h("a"), h("b"), h("c")

	type table struct {
		name string
		data []Data
		root string
	}

	tt := []table{
		{name: "one", data: []Data{{"a"}}, root: a},
		{name: "two", data: []Data{{"a"}, {"b"}}, root: h(a + b)},
		{name: "three", data: []Data{{"a"}, {"b"}, {"c"}}, root: h(h(a+b) + h(c+c))},
		{name: "four", data: []Data{{"a"}, {"b"}, {"c"}, {"a"}}, root: h(h(a+b) + h(c+a))},
		{name: "five", data: []Data{{"a"}, {"b"}, {"c"}, {"a"}, {"b"}}, root: h(h(h(a+b)+h(c+a)) + h(h(b+b)+h(b+b)))},
	}

	t.Log("Given the need to calculate merkle roots.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				tree, err := merkle.NewTree(tst.data)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to build the tree: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to build the tree.", success, testID)

				if tree.RootHex() != tst.root {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tree.RootHex())
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.root)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right root.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right root.", success, testID)

				if root := merkle.RootHex(tst.data); root != tst.root {
					t.Fatalf("\t%s\tTest %d:\tShould get the same root from RootHex.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the same root from RootHex.", success, testID)

				if err := tree.Verify(); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould verify the tree: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould verify the tree.", success, testID)

				if len(tree.Values()) != len(tst.data) {
					t.Fatalf("\t%s\tTest %d:\tShould get back every value, got %d.", failed, testID, len(tree.Values()))
				}
				t.Logf("\t%s\tTest %d:\tShould get back every value.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_EmptyRoot(t *testing.T) {
	if root := merkle.RootHex([]Data{}); root != merkle.EmptyRoot {
		t.Fatalf("Should get the empty root for no values, got %s", root)
	}

	const root = merkle.EmptyRoot
	if root != signature.ZeroHash {
		t.Fatalf("Should use the zero hash as the empty root.")
	}

	if _, err := merkle.NewTree([]Data{}); err == nil {
		t.Fatalf("Should not be able to build a tree with no content.")
	}
}

func Test_OrderMatters(t *testing.T) {
	r1 := merkle.RootHex([]Data{{"a"}, {"b"}, {"c"}})
	r2 := merkle.RootHex([]Data{{"b"}, {"a"}, {"c"}})

	if r1 == r2 {
		t.Fatalf("Should get a different root when values are reordered.")
	}
}

func Test_Proof(t *testing.T) {
	data := []Data{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}

	tree, err := merkle.NewTree(data)
	if err != nil {
		t.Fatalf("Should be able to build the tree: %s", err)
	}

	for _, d := range data {
		proof, order, err := tree.Proof(d)
		if err != nil {
			t.Fatalf("Should be able to get a proof for %s: %s", d.x, err)
		}

		if !tree.VerifyProof(d.Hash(), proof, order) {
			t.Fatalf("Should be able to verify the proof for %s", d.x)
		}

		if tree.VerifyProof(h("z"), proof, order) {
			t.Fatalf("Should not verify the proof for different data using %s's proof", d.x)
		}

		if err := tree.VerifyData(d); err != nil {
			t.Fatalf("Should be able to verify data %s: %s", d.x, err)
		}
	}

	if _, _, err := tree.Proof(Data{"z"}); err == nil {
		t.Fatalf("Should not get a proof for data not in the tree.")
	}
}

func Test_Tampered(t *testing.T) {
	tree, err := merkle.NewTree([]Data{{"a"}, {"b"}, {"c"}})
	if err != nil {
		t.Fatalf("Should be able to build the tree: %s", err)
	}

	tree.Leafs[1].Value = Data{"x"}

	if err := tree.Verify(); err == nil {
		t.Fatalf("Should detect a changed leaf value.")
	}

	if err := tree.VerifyData(Data{"x"}); err == nil {
		t.Fatalf("Should detect the changed value on the critical path.")
	}

	if err := tree.Rebuild(); err != nil {
		t.Fatalf("Should be able to rebuild the tree: %s", err)
	}

	if err := tree.Verify(); err != nil {
		t.Fatalf("Should verify after a rebuild: %s", err)
	}
}

func Test_HashStrategy(t *testing.T) {
	data := []Data{{"a"}, {"b"}}
	upper := func(s string) string { return strings.ToUpper(h(s)) }

	tree, err := merkle.NewTree(data, merkle.WithHashStrategy[Data](upper))
	if err != nil {
		t.Fatalf("Should be able to build the tree: %s", err)
	}

	exp := upper(h("a") + h("b"))
	if tree.MerkleRoot != exp {
		t.Logf("got: %s", tree.MerkleRoot)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should use the configured hash strategy.")
	}
}
