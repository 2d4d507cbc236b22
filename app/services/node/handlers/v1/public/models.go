package public

import (
	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

type tx struct {
	Sender       string `json:"sender"`
	SenderName   string `json:"sender_name"`
	Receiver     string `json:"receiver"`
	ReceiverName string `json:"receiver_name"`
	Amount       uint64 `json:"amount"`
	TimeStamp    uint64 `json:"timestamp"`
}

type signedTx struct {
	Tx        tx     `json:"transaction"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

type block struct {
	Index     uint64 `json:"index"`
	TimeStamp int64  `json:"timestamp"`
	PrevHash  string `json:"previous_hash"`
	Hash      string `json:"hash"`
	Nonce     uint64 `json:"nonce"`
	Trans     []tx   `json:"transactions"`
}

type chainInfo struct {
	LatestBlock string  `json:"latest_block"`
	Uncommitted int     `json:"uncommitted"`
	Blocks      []block `json:"blocks"`
}

// =============================================================================

type newTx struct {
	Sender    string `json:"sender" validate:"required,len=64,hexadecimal"`
	Receiver  string `json:"receiver" validate:"required"`
	Amount    uint64 `json:"amount"`
	TimeStamp uint64 `json:"timestamp"`
}

type newSignedTx struct {
	Tx        newTx  `json:"transaction"`
	Signature string `json:"signature" validate:"required,len=128,hexadecimal"`
	PublicKey string `json:"public_key" validate:"required,len=64,hexadecimal"`
}

// Validate checks the data in the model is considered clean.
func (nst newSignedTx) Validate() error {
	return validate.Check(nst)
}

func toDBSignedTx(nst newSignedTx) database.SignedTx {
	return database.SignedTx{
		Tx: database.Tx{
			Sender:    nst.Tx.Sender,
			Receiver:  nst.Tx.Receiver,
			Amount:    nst.Tx.Amount,
			TimeStamp: nst.Tx.TimeStamp,
		},
		Signature: nst.Signature,
		PublicKey: nst.PublicKey,
	}
}
