package chain

import (
	"context"
	"net/http"
	"strings"
)

// TxStatus is a coarse transaction lifecycle state.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// Transaction is the slice of the node's transaction record this client
// cares about.
type Transaction struct {
	TxID        string `json:"tx_id"`
	Status      string `json:"tx_status"`
	BlockHeight uint64 `json:"block_height"`
}

// LifecycleStatus folds the node's status strings into a TxStatus.
// Anything abort-ish or dropped counts as failed.
func (t *Transaction) LifecycleStatus() TxStatus {
	switch {
	case t.Status == "pending":
		return TxPending
	case t.Status == "success":
		return TxSuccess
	case strings.HasPrefix(t.Status, "abort"), strings.HasPrefix(t.Status, "dropped"):
		return TxFailed
	default:
		return TxPending
	}
}

// GetTransaction looks up a transaction by id. Returns ErrNotFound for
// transactions the node has never seen.
func (c *Client) GetTransaction(ctx context.Context, txid string) (*Transaction, error) {
	if !strings.HasPrefix(txid, "0x") {
		txid = "0x" + txid
	}
	var tx Transaction
	url := c.url("extended", "v1", "tx", txid)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
