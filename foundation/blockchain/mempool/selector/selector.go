// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyOldest = "oldest"
	StrategyFair   = "fair"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyOldest: oldestSelect,
	StrategyFair:   fairSelect,
}

// Func defines a function that takes a mempool of transactions grouped by
// sender address and selects howMany of them in an order based on the
// function's strategy. All selector functions MUST keep each sender's
// transactions in timestamp order. Receiving -1 for howMany must return all
// the transactions in the strategy's ordering.
type Func func(transactions map[string][]database.SignedTx, howMany int) []database.SignedTx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// byAge provides sorting support by the transaction timestamp. Ties are
// broken on the signature so the order never depends on map iteration.
type byAge []database.SignedTx

// Len returns the number of transactions in the list.
func (ba byAge) Len() int {
	return len(ba)
}

// Less helps to sort the list by timestamp in ascending order so the oldest
// transactions get mined first.
func (ba byAge) Less(i, j int) bool {
	if ba[i].Tx.TimeStamp != ba[j].Tx.TimeStamp {
		return ba[i].Tx.TimeStamp < ba[j].Tx.TimeStamp
	}
	return ba[i].Signature < ba[j].Signature
}

// Swap moves transactions in the order of the timestamp value.
func (ba byAge) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
