package public

import (
	"net/http"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/genesis"
	"github.com/Jeston10/JestoGP9Te/foundation/events"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
	"github.com/Jeston10/JestoGP9Te/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *zap.SugaredLogger
	Chain    *chain.Chain
	Miner    Miner
	Worker   Worker
	Genesis  genesis.Genesis
	NS       *nameservice.NameService
	AutoMine bool
	Evts     *events.Events
}

// Routes binds all the version 1 public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:      cfg.Log,
		Chain:    cfg.Chain,
		Miner:    cfg.Miner,
		Worker:   cfg.Worker,
		Gen:      cfg.Genesis,
		NS:       cfg.NS,
		AutoMine: cfg.AutoMine,
		WS:       websocket.Upgrader{},
		Evts:     cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/names", pbl.Names)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/latest", pbl.LatestBlock)
	app.Handle(http.MethodGet, version, "/blocks/number/:num", pbl.BlockByNumber)
	app.Handle(http.MethodGet, version, "/tx/list", pbl.Transactions)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/proof/:block/:hash", pbl.Proof)
	app.Handle(http.MethodPost, version, "/mining/mine", pbl.Mine)
	app.Handle(http.MethodPost, version, "/mining/signal", pbl.SignalMining)
	app.Handle(http.MethodGet, version, "/chain/valid", pbl.Valid)
	app.Handle(http.MethodGet, version, "/chain/length", pbl.Length)
	app.Handle(http.MethodGet, version, "/wallet/new", pbl.NewWallet)
	app.Handle(http.MethodPost, version, "/wallet/verify", pbl.VerifySignature)
}
