package public

import (
	"encoding/base64"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/nameservice"
)

// tx is the transaction as the API presents it.
type tx struct {
	Hash          string `json:"hash"`
	Sender        string `json:"sender"`
	SenderName    string `json:"sender_name"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        uint64 `json:"amount"`
	Signature     string `json:"signature,omitempty"`
}

func toTx(ns *nameservice.NameService, dbTx database.Tx) tx {
	t := tx{
		Hash:          dbTx.Hash(),
		Sender:        dbTx.Sender,
		SenderName:    ns.Lookup(dbTx.Sender),
		Recipient:     dbTx.Recipient,
		RecipientName: ns.Lookup(dbTx.Recipient),
		Amount:        dbTx.Amount,
	}

	if dbTx.IsSigned() {
		t.Signature = base64.StdEncoding.EncodeToString(dbTx.Signature)
	}

	return t
}

func toTxs(ns *nameservice.NameService, dbTxs []database.Tx) []tx {
	trans := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		trans[i] = toTx(ns, dbTx)
	}

	return trans
}

// block is the block as the API presents it.
type block struct {
	Number        uint64 `json:"index"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"previous_hash"`
	TransRoot     string `json:"trans_root"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"trans"`
}

func toBlock(ns *nameservice.NameService, dbBlock database.Block) block {
	return block{
		Number:        dbBlock.Header.Number,
		TimeStamp:     dbBlock.Header.TimeStamp,
		PrevBlockHash: dbBlock.Header.PrevBlockHash,
		TransRoot:     dbBlock.Header.TransRoot,
		Nonce:         dbBlock.Header.Nonce,
		Hash:          dbBlock.Hash,
		Trans:         toTxs(ns, dbBlock.Trans),
	}
}

func toBlocks(ns *nameservice.NameService, dbBlocks []database.Block) []block {
	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(ns, dbBlock)
	}

	return blocks
}

// =============================================================================

// submitTx is the payload for submitting a transaction. The signature is the
// base64 encoding of the signature over the transaction hash.
type submitTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
	Signature string `json:"signature" validate:"omitempty,base64"`
}

// verifyData is the payload for verifying a signature.
type verifyData struct {
	PublicKey string `json:"public_key" validate:"required,base64"`
	Data      string `json:"data"`
	Signature string `json:"signature" validate:"required,base64"`
}

// newWallet carries a freshly generated key pair.
type newWallet struct {
	Address    string `json:"address"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// proof carries the merkle proof of a transaction in a block.
type proof struct {
	Block     uint64   `json:"block"`
	TxHash    string   `json:"tx_hash"`
	TransRoot string   `json:"trans_root"`
	Proof     []string `json:"proof"`
	Order     []int64  `json:"order"`
}

// validity reports the result of validating the chain.
type validity struct {
	Valid        bool `json:"valid"`
	FirstInvalid int  `json:"first_invalid"`
}

// status is the generic response for actions.
type status struct {
	Status string `json:"status"`
	Hash   string `json:"hash,omitempty"`
}
