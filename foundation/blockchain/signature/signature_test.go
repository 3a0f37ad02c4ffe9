package signature_test

import (
	"strings"
	"testing"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	type table struct {
		name  string
		value string
		hash  string
	}

	tt := []table{
		{
			name:  "empty",
			value: "",
			hash:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "abc",
			value: "abc",
			hash:  "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	t.Log("Given the need to hash values consistently.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				h := signature.Hash(tst.value)
				if h != tst.hash {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, h)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right hash.", success, testID)

				if hb := signature.Hash([]byte(tst.value)); hb != h {
					t.Fatalf("\t%s\tTest %d:\tShould get the same hash for bytes and strings.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the same hash for bytes and strings.", success, testID)

				if !signature.IsHash(h) {
					t.Fatalf("\t%s\tTest %d:\tShould recognize the value as a hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould recognize the value as a hash.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ZeroHash(t *testing.T) {
	const zero = signature.ZeroHash
	if zero != strings.Repeat("0", signature.HashLength) {
		t.Fatalf("Should be a constant of %d zeros: %s", signature.HashLength, zero)
	}

	if len(signature.ZeroHash) != signature.HashLength {
		t.Fatalf("Should have a zero hash of %d characters, got %d.", signature.HashLength, len(signature.ZeroHash))
	}

	if strings.Trim(signature.ZeroHash, "0") != "" {
		t.Fatalf("Should only contain zeros: %s", signature.ZeroHash)
	}

	if signature.IsHash("0x" + signature.ZeroHash[2:]) {
		t.Fatalf("Should not accept a prefixed value as a hash.")
	}
}
