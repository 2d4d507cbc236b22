package selector

import (
	"sort"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// oldestSelect returns the oldest transactions in the pool regardless of
// who sent them.
var oldestSelect = func(m map[string][]database.SignedTx, howMany int) []database.SignedTx {
	var all []database.SignedTx
	for _, trans := range m {
		all = append(all, trans...)
	}

	sort.Sort(byAge(all))

	if howMany == -1 || howMany > len(all) {
		howMany = len(all)
	}

	final := make([]database.SignedTx, howMany)
	copy(final, all[:howMany])

	return final
}
