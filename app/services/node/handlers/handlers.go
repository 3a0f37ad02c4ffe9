// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/Jeston10/JestoGP9Te/app/services/node/handlers/debug/checkgrp"
	"github.com/Jeston10/JestoGP9Te/app/services/node/handlers/v1/private"
	"github.com/Jeston10/JestoGP9Te/app/services/node/handlers/v1/public"
	"github.com/Jeston10/JestoGP9Te/business/web/mid"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/genesis"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/peer"
	"github.com/Jeston10/JestoGP9Te/foundation/events"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
	"github.com/Jeston10/JestoGP9Te/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown    chan os.Signal
	Log         *zap.SugaredLogger
	Chain       *chain.Chain
	Miner       public.Miner
	Worker      public.Worker
	Genesis     genesis.Genesis
	NS          *nameservice.NameService
	KnownPeers  *peer.PeerSet
	Host        string
	AutoMine    bool
	Evts        *events.Events
	CORSOrigins []string
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Cors(cfg.CORSOrigins),
		mid.Panics(),
	)

	// Accept CORS 'OPTIONS' preflight requests.
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", h)

	public.Routes(app, public.Config{
		Log:      cfg.Log,
		Chain:    cfg.Chain,
		Miner:    cfg.Miner,
		Worker:   cfg.Worker,
		Genesis:  cfg.Genesis,
		NS:       cfg.NS,
		AutoMine: cfg.AutoMine,
		Evts:     cfg.Evts,
	})

	return app
}

// PrivateMux constructs a http.Handler with all node to node routes defined.
func PrivateMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Panics(),
	)

	private.Routes(app, private.Config{
		Log:        cfg.Log,
		Chain:      cfg.Chain,
		KnownPeers: cfg.KnownPeers,
		Host:       cfg.Host,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard library
// into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger, chn *chain.Chain) http.Handler {
	mux := DebugStandardLibraryMux()

	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
		Chain: chn,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
