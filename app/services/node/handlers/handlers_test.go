package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/Jeston10/JestoGP9Te/app/services/node/handlers"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/chain"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/genesis"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/merkle"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/miner"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/peer"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/signature"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/Jeston10/JestoGP9Te/foundation/events"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// worker records the signals the handlers send.
type worker struct {
	mu     sync.Mutex
	mining int
	shared []database.Tx
}

func (w *worker) SignalStartMining() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mining++
}

func (w *worker) SignalShareTx(tx database.Tx) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shared = append(w.shared, tx)
}

type node struct {
	chain   *chain.Chain
	worker  *worker
	public  http.Handler
	private http.Handler
	debug   http.Handler
}

func newNode(t *testing.T, autoMine bool) node {
	gen := genesis.Default()
	gen.Difficulty = 1

	chn, err := chain.New(chain.Config{Genesis: gen})
	if err != nil {
		t.Fatalf("Should be able to construct a chain: %s", err)
	}
	t.Cleanup(func() { chn.Close() })

	log := zap.NewNop().Sugar()
	wrk := worker{}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	cfg := handlers.MuxConfig{
		Shutdown:    make(chan os.Signal, 1),
		Log:         log,
		Chain:       chn,
		Miner:       miner.New(miner.Config{Chain: chn}),
		Worker:      &wrk,
		Genesis:     gen,
		NS:          ns,
		KnownPeers:  peer.NewPeerSet(),
		Host:        "localhost:9080",
		AutoMine:    autoMine,
		Evts:        events.New(),
		CORSOrigins: []string{"http://localhost:3080"},
	}

	return node{
		chain:   chn,
		worker:  &wrk,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, chn),
	}
}

func call(t *testing.T, h http.Handler, method string, path string, body any, resp any) int {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Should be able to encode the body: %s", err)
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))

	if resp != nil && w.Code < http.StatusMultipleChoices && w.Code != http.StatusNoContent {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			t.Fatalf("Should be able to decode the response for %s: %s", path, err)
		}
	}

	return w.Code
}

type blockResp struct {
	Number    uint64 `json:"index"`
	Hash      string `json:"hash"`
	TransRoot string `json:"trans_root"`
	Trans     []struct {
		Hash   string `json:"hash"`
		Amount uint64 `json:"amount"`
	} `json:"trans"`
}

// =============================================================================

func Test_SubmitAndMine(t *testing.T) {
	n := newNode(t, false)

	t.Log("Given the need to submit transactions and mine them over the API.")
	{
		var length struct {
			Length int `json:"length"`
		}
		if code := call(t, n.public, http.MethodGet, "/v1/chain/length", nil, &length); code != http.StatusOK || length.Length != 1 {
			t.Fatalf("\t%s\tShould start with the genesis block: %d %d", failed, code, length.Length)
		}
		t.Logf("\t%s\tShould start with the genesis block.", success)

		bad := map[string]any{"sender": "A", "recipient": "B", "amount": 0}
		if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", bad, nil); code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject a zero amount with 400, got %d", failed, code)
		}
		t.Logf("\t%s\tShould reject a zero amount with 400.", success)

		unknown := map[string]any{"sender": "A", "recipient": "B", "amount": 5, "tip": 1}
		if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", unknown, nil); code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject unknown fields with 400, got %d", failed, code)
		}
		t.Logf("\t%s\tShould reject unknown fields with 400.", success)

		var st struct {
			Status string `json:"status"`
			Hash   string `json:"hash"`
		}
		good := map[string]any{"sender": "A", "recipient": "B", "amount": 10}
		if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", good, &st); code != http.StatusOK {
			t.Fatalf("\t%s\tShould accept a valid transaction, got %d", failed, code)
		}
		if st.Hash != signature.Hash("AB10") {
			t.Fatalf("\t%s\tShould return the transaction hash, got %s", failed, st.Hash)
		}
		t.Logf("\t%s\tShould accept a valid transaction.", success)

		if len(n.worker.shared) != 1 || n.worker.mining != 0 {
			t.Fatalf("\t%s\tShould share the transaction without signalling mining: %d %d", failed, len(n.worker.shared), n.worker.mining)
		}
		t.Logf("\t%s\tShould share the transaction without signalling mining.", success)

		var pending []struct {
			Hash string `json:"hash"`
		}
		if code := call(t, n.public, http.MethodGet, "/v1/tx/uncommitted/list", nil, &pending); code != http.StatusOK || len(pending) != 1 {
			t.Fatalf("\t%s\tShould list one pending transaction: %d %d", failed, code, len(pending))
		}
		t.Logf("\t%s\tShould list one pending transaction.", success)

		var blk blockResp
		if code := call(t, n.public, http.MethodPost, "/v1/mining/mine", nil, &blk); code != http.StatusOK {
			t.Fatalf("\t%s\tShould mine a block, got %d", failed, code)
		}
		if blk.Number != 1 || len(blk.Trans) != 1 || blk.Hash[0] != '0' {
			t.Fatalf("\t%s\tShould get back the mined block: %+v", failed, blk)
		}
		t.Logf("\t%s\tShould mine a block.", success)

		var none struct {
			Status string `json:"status"`
		}
		if code := call(t, n.public, http.MethodPost, "/v1/mining/mine", nil, &none); code != http.StatusOK || none.Status != "no transactions to mine" {
			t.Fatalf("\t%s\tShould report nothing to mine: %d %q", failed, code, none.Status)
		}
		t.Logf("\t%s\tShould report nothing to mine.", success)

		var got blockResp
		if code := call(t, n.public, http.MethodGet, "/v1/blocks/number/1", nil, &got); code != http.StatusOK || got.Hash != blk.Hash {
			t.Fatalf("\t%s\tShould get the block by number: %d", failed, code)
		}
		t.Logf("\t%s\tShould get the block by number.", success)

		var prf struct {
			TransRoot string   `json:"trans_root"`
			Proof     []string `json:"proof"`
			Order     []int64  `json:"order"`
		}
		if code := call(t, n.public, http.MethodGet, "/v1/tx/proof/1/"+st.Hash, nil, &prf); code != http.StatusOK {
			t.Fatalf("\t%s\tShould get a proof for the transaction, got %d", failed, code)
		}
		if prf.TransRoot != merkle.RootHex(n.chain.LatestBlock().Trans) || len(prf.Proof) != 0 {
			t.Fatalf("\t%s\tShould get an empty proof for a single transaction block: %+v", failed, prf)
		}
		t.Logf("\t%s\tShould get a proof for the transaction.", success)

		var valid struct {
			Valid        bool `json:"valid"`
			FirstInvalid int  `json:"first_invalid"`
		}
		if code := call(t, n.public, http.MethodGet, "/v1/chain/valid", nil, &valid); code != http.StatusOK || !valid.Valid || valid.FirstInvalid != -1 {
			t.Fatalf("\t%s\tShould report a valid chain: %d %+v", failed, code, valid)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)
	}
}

func Test_AutoMineSignal(t *testing.T) {
	n := newNode(t, true)

	good := map[string]any{"sender": "A", "recipient": "B", "amount": 3}
	if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", good, nil); code != http.StatusOK {
		t.Fatalf("Should accept a valid transaction, got %d", code)
	}

	if n.worker.mining != 1 {
		t.Fatalf("Should signal mining when auto mining, got %d", n.worker.mining)
	}

	if code := call(t, n.public, http.MethodPost, "/v1/mining/signal", nil, nil); code != http.StatusAccepted {
		t.Fatalf("Should accept a mining signal, got %d", code)
	}

	if n.worker.mining != 2 {
		t.Fatalf("Should signal mining on request, got %d", n.worker.mining)
	}
}

func Test_BlockLookupErrors(t *testing.T) {
	n := newNode(t, false)

	type table struct {
		name string
		path string
		code int
	}

	tt := []table{
		{name: "genesis", path: "/v1/blocks/number/0", code: http.StatusOK},
		{name: "notanumber", path: "/v1/blocks/number/abc", code: http.StatusBadRequest},
		{name: "missing", path: "/v1/blocks/number/9", code: http.StatusNotFound},
		{name: "proofmissingblock", path: "/v1/tx/proof/9/" + signature.ZeroHash, code: http.StatusNotFound},
		{name: "proofmissingtx", path: "/v1/tx/proof/0/" + signature.ZeroHash, code: http.StatusNotFound},
		{name: "latest", path: "/v1/blocks/latest", code: http.StatusOK},
		{name: "genesislist", path: "/v1/genesis/list", code: http.StatusOK},
		{name: "names", path: "/v1/accounts/names", code: http.StatusOK},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if code := call(t, n.public, http.MethodGet, tst.path, nil, nil); code != tst.code {
				t.Fatalf("Test %s:\tShould get %d, got %d", tst.name, tst.code, code)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_CorsPreflight(t *testing.T) {
	n := newNode(t, false)

	type table struct {
		name   string
		origin string
		allow  string
	}

	tt := []table{
		{name: "allowed", origin: "http://localhost:3080", allow: "http://localhost:3080"},
		{name: "other", origin: "http://evil.example", allow: ""},
	}

	t.Log("Given the need to answer browser preflight requests for the configured origins.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				r := httptest.NewRequest(http.MethodOptions, "/v1/tx/submit", nil)
				r.Header.Set("Origin", tst.origin)
				r.Header.Set("Access-Control-Request-Method", http.MethodPost)

				w := httptest.NewRecorder()
				n.public.ServeHTTP(w, r)

				if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.allow {
					t.Fatalf("\t%s\tTest %d:\tShould allow origin %q, got %q.", failed, testID, tst.allow, got)
				}
				t.Logf("\t%s\tTest %d:\tShould allow origin %q.", success, testID, tst.allow)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SignedSubmit(t *testing.T) {
	n := newNode(t, false)

	sender := wallet.New()
	other := wallet.New()
	if err := sender.GenerateKeyPair(); err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}
	if err := other.GenerateKeyPair(); err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	addr, _ := sender.Address()
	tx, err := database.NewTx(addr, "B", 7)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	forged := tx.Clone()
	if err := forged.Sign(other); err != nil {
		t.Fatalf("Should be able to sign: %s", err)
	}
	if err := tx.Sign(sender); err != nil {
		t.Fatalf("Should be able to sign: %s", err)
	}

	body := func(sig []byte) map[string]any {
		return map[string]any{
			"sender":    tx.Sender,
			"recipient": tx.Recipient,
			"amount":    tx.Amount,
			"signature": base64.StdEncoding.EncodeToString(sig),
		}
	}

	if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", body(forged.Signature), nil); code != http.StatusBadRequest {
		t.Fatalf("Should reject a signature from another key, got %d", code)
	}

	if code := call(t, n.public, http.MethodPost, "/v1/tx/submit", body(tx.Signature), nil); code != http.StatusOK {
		t.Fatalf("Should accept a signature from the sender, got %d", code)
	}

	pending := n.chain.PendingTransactions()
	if len(pending) != 1 || !pending[0].Equals(tx) {
		t.Fatalf("Should hold the signed transaction in the pool: %v", pending)
	}
}

func Test_Wallet(t *testing.T) {
	n := newNode(t, false)

	var wlt struct {
		Address    string `json:"address"`
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key"`
	}
	if code := call(t, n.public, http.MethodGet, "/v1/wallet/new", nil, &wlt); code != http.StatusOK {
		t.Fatalf("Should generate a wallet, got %d", code)
	}

	if wlt.Address != wlt.PublicKey {
		t.Fatalf("Should use the public key as the address.")
	}

	w, err := wallet.FromPrivateKey(wlt.PrivateKey)
	if err != nil {
		t.Fatalf("Should be able to rebuild the wallet: %s", err)
	}

	sig, err := w.Sign([]byte("hello"))
	if err != nil {
		t.Fatalf("Should be able to sign: %s", err)
	}

	type table struct {
		name  string
		data  string
		pub   string
		code  int
		valid bool
	}

	tt := []table{
		{name: "valid", data: "hello", pub: wlt.PublicKey, code: http.StatusOK, valid: true},
		{name: "tampered", data: "hellO", pub: wlt.PublicKey, code: http.StatusOK, valid: false},
		{name: "badkey", data: "hello", pub: base64.StdEncoding.EncodeToString([]byte("short")), code: http.StatusBadRequest},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			req := map[string]any{
				"public_key": tst.pub,
				"data":       tst.data,
				"signature":  base64.StdEncoding.EncodeToString(sig),
			}

			var resp struct {
				Valid bool `json:"valid"`
			}
			if code := call(t, n.public, http.MethodPost, "/v1/wallet/verify", req, &resp); code != tst.code {
				t.Fatalf("Test %s:\tShould get %d, got %d", tst.name, tst.code, code)
			}

			if resp.Valid != tst.valid {
				t.Fatalf("Test %s:\tShould get valid %t", tst.name, tst.valid)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_PrivateRoutes(t *testing.T) {
	n := newNode(t, false)

	t.Log("Given the need to manage peers and node transactions.")
	{
		if code := call(t, n.private, http.MethodPost, "/v1/node/peers/add", map[string]string{"host": "localhost:9181"}, nil); code != http.StatusOK {
			t.Fatalf("\t%s\tShould add a new peer, got %d", failed, code)
		}
		t.Logf("\t%s\tShould add a new peer.", success)

		if code := call(t, n.private, http.MethodPost, "/v1/node/peers/add", map[string]string{"host": "localhost:9181"}, nil); code != http.StatusNoContent {
			t.Fatalf("\t%s\tShould report a known peer with 204, got %d", failed, code)
		}
		t.Logf("\t%s\tShould report a known peer with 204.", success)

		if code := call(t, n.private, http.MethodPost, "/v1/node/peers/add", map[string]string{"host": ""}, nil); code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject an empty host, got %d", failed, code)
		}
		t.Logf("\t%s\tShould reject an empty host.", success)

		var status peer.PeerStatus
		if code := call(t, n.private, http.MethodGet, "/v1/node/status", nil, &status); code != http.StatusOK {
			t.Fatalf("\t%s\tShould get the node status, got %d", failed, code)
		}
		if status.LatestBlockNumber != 0 || len(status.KnownPeers) != 1 || status.KnownPeers[0].Host != "localhost:9181" {
			t.Fatalf("\t%s\tShould report the tip and the peers: %+v", failed, status)
		}
		t.Logf("\t%s\tShould report the tip and the peers.", success)

		tx := map[string]any{"sender": "A", "recipient": "B", "amount": 4}
		if code := call(t, n.private, http.MethodPost, "/v1/node/tx/submit", tx, nil); code != http.StatusOK {
			t.Fatalf("\t%s\tShould accept a node transaction, got %d", failed, code)
		}
		if n.chain.PendingCount() != 1 || len(n.worker.shared) != 0 {
			t.Fatalf("\t%s\tShould pool the node transaction without sharing it again.", failed)
		}
		t.Logf("\t%s\tShould pool the node transaction without sharing it again.", success)
	}
}

func Test_ProposeBlock(t *testing.T) {
	n := newNode(t, false)

	tx, err := database.NewTx("A", "B", 10)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	tip := n.chain.LatestBlock()

	stale := database.NewBlock(1, []database.Tx{tx}, signature.ZeroHash)
	if code := call(t, n.private, http.MethodPost, "/v1/node/block/propose", stale, nil); code != http.StatusConflict {
		t.Fatalf("Should reject a block on the wrong parent with 409, got %d", code)
	}

	blk := database.NewBlock(1, []database.Tx{tx}, tip.Hash)
	var resp struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}
	if code := call(t, n.private, http.MethodPost, "/v1/node/block/propose", blk, &resp); code != http.StatusOK {
		t.Fatalf("Should accept a block on the tip, got %d", code)
	}

	if n.chain.Length() != 2 || n.chain.LatestBlock().Hash != resp.Hash {
		t.Fatalf("Should append the proposed block.")
	}
}

func Test_Debug(t *testing.T) {
	n := newNode(t, false)

	var ready struct {
		Status string `json:"status"`
		Length int    `json:"length"`
	}
	if code := call(t, n.debug, http.MethodGet, "/debug/readiness", nil, &ready); code != http.StatusOK || ready.Length != 1 {
		t.Fatalf("Should be ready with the genesis block: %d %+v", code, ready)
	}

	if code := call(t, n.debug, http.MethodGet, "/debug/liveness", nil, nil); code != http.StatusOK {
		t.Fatalf("Should be alive, got %d", code)
	}
}
