package mempool_test

import (
	"testing"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(t *testing.T, sender string, recipient string, amount uint64) database.Tx {
	t.Helper()

	tx, err := database.NewTx(sender, recipient, amount)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	return tx
}

// =============================================================================

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
		best int
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				newTx(t, "Bill", "Jill", 10),
				newTx(t, "Jill", "Pavl", 50),
				newTx(t, "Pavl", "Edua", 100),
				newTx(t, "Edua", "Bill", 10),
			},
			best: 2,
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the pool size %d, got %d.", failed, testID, i+1, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add new transactions.", success, testID)

					for i, tx := range mp.Copy() {
						if !tx.Equals(tst.txs[i]) {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in arrival order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back transactions in arrival order.", success, testID)

					best := mp.PickBest(tst.best)
					if len(best) != tst.best || !best[0].Equals(tst.txs[0]) {
						t.Fatalf("\t%s\tTest %d:\tShould pick the oldest %d transactions.", failed, testID, tst.best)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the oldest %d transactions.", success, testID, tst.best)

					if n := mp.Delete(best); n != tst.best || mp.Count() != len(tst.txs)-tst.best {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove the picked transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove the picked transactions.", success, testID)

					if n := mp.Delete(best); n != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould ignore transactions no longer pooled.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould ignore transactions no longer pooled.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestDuplicates(t *testing.T) {
	mp := mempool.New()
	tx := newTx(t, "A", "B", 10)

	mp.Add(tx)
	mp.Add(tx)

	if n := mp.Delete([]database.Tx{tx}); n != 1 {
		t.Fatalf("Should remove a single copy, removed %d", n)
	}

	if mp.Count() != 1 {
		t.Fatalf("Should keep the second copy, got %d", mp.Count())
	}
}

func TestCopyIsDefensive(t *testing.T) {
	mp := mempool.New()
	mp.Add(newTx(t, "A", "B", 10))

	txs := mp.Copy()
	txs[0].Amount = 1000

	if mp.Copy()[0].Amount != 10 {
		t.Fatalf("Should not let callers change pooled transactions.")
	}
}
