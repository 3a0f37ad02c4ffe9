// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Jeston10/JestoGP9Te/business/web/errs"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/genesis"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/miner"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/Jeston10/JestoGP9Te/foundation/events"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
	"github.com/Jeston10/JestoGP9Te/foundation/validate"
	"github.com/Jeston10/JestoGP9Te/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Miner represents the behavior required to mine a block on demand.
type Miner interface {
	Mine(ctx context.Context) (database.Block, error)
}

// Worker represents the behavior required to signal background work.
type Worker interface {
	SignalStartMining()
	SignalShareTx(tx database.Tx)
}

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Chain    *chain.Chain
	Miner    Miner
	Worker   Worker
	Gen      genesis.Genesis
	NS       *nameservice.NameService
	AutoMine bool
	WS       websocket.Upgrader
	Evts     *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Gen, http.StatusOK)
}

// Blocks returns every block on the chain in order.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlocks(h.NS, h.Chain.Snapshot()), http.StatusOK)
}

// LatestBlock returns the tip of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlock(h.NS, h.Chain.LatestBlock()), http.StatusOK)
}

// BlockByNumber returns the block at the specified index.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "num"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	blk, err := h.Chain.BlockByNumber(num)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(h.NS, blk), http.StatusOK)
}

// Transactions returns every committed transaction in chain order.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.Chain.Transactions()), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.Chain.PendingTransactions()), http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool. When a signature
// is provided it must verify against the sender's public key.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	tx, err := database.NewTx(req.Sender, req.Recipient, req.Amount)
	if err != nil {
		return err
	}

	if req.Signature != "" {
		sig, err := base64.StdEncoding.DecodeString(req.Signature)
		if err != nil {
			return errs.NewTrusted(fmt.Errorf("decoding signature: %w", err), http.StatusBadRequest)
		}
		tx.AttachSignature(sig)

		ok, err := tx.VerifySignature(tx.Sender)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		if !ok {
			return errs.NewTrusted(errors.New("signature does not match sender"), http.StatusBadRequest)
		}
	}

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "tx", tx.String())

	if err := h.Chain.EnqueueTransaction(tx); err != nil {
		return err
	}

	h.Worker.SignalShareTx(tx)
	if h.AutoMine {
		h.Worker.SignalStartMining()
	}

	resp := status{
		Status: "transaction added to mempool",
		Hash:   tx.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proof returns the merkle proof for a committed transaction.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "block"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	blk, err := h.Chain.BlockByNumber(num)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	txHash := web.Param(r, "hash")
	for _, tx := range blk.Trans {
		if tx.Hash() != txHash {
			continue
		}

		prf, order, err := blk.Proof(tx)
		if err != nil {
			return err
		}

		resp := proof{
			Block:     blk.Header.Number,
			TxHash:    txHash,
			TransRoot: blk.Header.TransRoot,
			Proof:     prf,
			Order:     order,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	return errs.NewTrusted(fmt.Errorf("transaction %s not found in block %d", txHash, num), http.StatusNotFound)
}

// Mine mines the pending transactions into a new block and waits for the
// result.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.Miner.Mine(ctx)
	if err != nil {
		switch {
		case errors.Is(err, miner.ErrNoTransactions):
			return web.Respond(ctx, w, status{Status: "no transactions to mine"}, http.StatusOK)
		case errors.Is(err, chain.ErrPrecedingHashMismatch):
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(h.NS, blk), http.StatusOK)
}

// SignalMining asks the background worker to mine the pending transactions.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalStartMining()

	return web.Respond(ctx, w, status{Status: "mining signalled"}, http.StatusAccepted)
}

// Valid reports whether the chain validates and the first bad index if not.
func (h Handlers) Valid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	idx, invalid := h.Chain.FirstInvalid()

	resp := validity{
		Valid:        !invalid,
		FirstInvalid: -1,
	}
	if invalid {
		resp.FirstInvalid = idx
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Length returns the number of blocks on the chain.
func (h Handlers) Length(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Length int `json:"length"`
	}{
		Length: h.Chain.Length(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewWallet generates a key pair. The private key is returned to the caller
// and never kept by the node.
func (h Handlers) NewWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wlt := wallet.New()
	if err := wlt.GenerateKeyPair(); err != nil {
		return err
	}

	addr, err := wlt.Address()
	if err != nil {
		return err
	}

	pub, err := wlt.PublicKeyEncoded()
	if err != nil {
		return err
	}

	prv, err := wlt.PrivateKeyEncoded()
	if err != nil {
		return err
	}

	resp := newWallet{
		Address:    addr,
		PublicKey:  pub,
		PrivateKey: prv,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifySignature checks a signature over arbitrary data.
func (h Handlers) VerifySignature(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req verifyData
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	sig, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("decoding signature: %w", err), http.StatusBadRequest)
	}

	ok, err := wallet.Verify(req.PublicKey, []byte(req.Data), sig)
	if err != nil {
		if errors.Is(err, wallet.ErrVerification) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Valid bool `json:"valid"`
	}{
		Valid: ok,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Names returns the addresses the node knows a name for.
func (h Handlers) Names(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.NS.Copy(), http.StatusOK)
}
