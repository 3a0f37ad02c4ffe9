package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
)

func Test_Lookup(t *testing.T) {
	dir := t.TempDir()

	w := wallet.New()
	if err := w.GenerateKeyPair(); err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}
	if err := w.Save(filepath.Join(dir, "kennedy.ecdsa")); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0600); err != nil {
		t.Fatalf("Should be able to write a file: %s", err)
	}

	ns, err := nameservice.New(dir)
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	addr, _ := w.Address()
	if name := ns.Lookup(addr); name != "kennedy" {
		t.Fatalf("Should resolve the address to its file name, got %s", name)
	}

	if name := ns.Lookup("unknown"); name != "unknown" {
		t.Fatalf("Should return unknown addresses as is, got %s", name)
	}

	if len(ns.Copy()) != 1 {
		t.Fatalf("Should only load key files, got %d", len(ns.Copy()))
	}
}

func Test_MissingFolder(t *testing.T) {
	ns, err := nameservice.New(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Should tolerate a missing folder: %s", err)
	}

	if len(ns.Copy()) != 0 {
		t.Fatalf("Should have no names.")
	}
}
