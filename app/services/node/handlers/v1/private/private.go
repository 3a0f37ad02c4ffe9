// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jeston10/JestoGP9Te/business/web/errs"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/peer"
	"github.com/Jeston10/JestoGP9Te/foundation/validate"
	"github.com/Jeston10/JestoGP9Te/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log        *zap.SugaredLogger
	Chain      *chain.Chain
	KnownPeers *peer.PeerSet
	Host       string
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
// The transaction is not shared again.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add node tran", "traceid", web.GetTraceID(ctx), "tx", tx.String())
	if err := h.Chain.EnqueueTransaction(tx); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProposeBlock takes a block received from a peer and appends it to the
// local chain. A block already carrying a solved nonce is accepted as is.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	blk, err := h.Chain.Append(ctx, block)
	if err != nil {
		if errors.Is(err, chain.ErrPrecedingHashMismatch) {
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return errs.NewTrusted(fmt.Errorf("block not accepted: %w", err), http.StatusNotAcceptable)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "accepted",
		Hash:   blk.Hash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.Chain.LatestBlock()

	status := peer.PeerStatus{
		LatestBlockHash:   latestBlock.Hash,
		LatestBlockNumber: latestBlock.Header.Number,
		KnownPeers:        h.KnownPeers.Copy(h.Host),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Peers returns the known peers of this node.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.KnownPeers.Copy(h.Host), http.StatusOK)
}

// SubmitPeer is called by a node so it can be added to the known peer list.
func (h Handlers) SubmitPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Host string `json:"host" validate:"required,hostname_port"`
	}
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	if !h.KnownPeers.Add(peer.New(req.Host)) {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	h.Log.Infow("adding peer", "traceid", web.GetTraceID(ctx), "host", req.Host)

	return web.Respond(ctx, w, nil, http.StatusOK)
}
