package private

import (
	"net/http"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/peer"
	"github.com/Jeston10/JestoGP9Te/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *zap.SugaredLogger
	Chain      *chain.Chain
	KnownPeers *peer.PeerSet
	Host       string
}

// Routes binds all the version 1 private routes.
func Routes(app *web.App, cfg Config) {
	prv := Handlers{
		Log:        cfg.Log,
		Chain:      cfg.Chain,
		KnownPeers: cfg.KnownPeers,
		Host:       cfg.Host,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/peers/list", prv.Peers)
	app.Handle(http.MethodPost, version, "/node/peers/add", prv.SubmitPeer)
	app.Handle(http.MethodPost, version, "/node/tx/submit", prv.SubmitNodeTransaction)
	app.Handle(http.MethodPost, version, "/node/block/propose", prv.ProposeBlock)
}
