package selector

import (
	"sort"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// fairSelect takes one transaction from each sender per round so a single
// busy sender can't fill a block while others wait.
var fairSelect = func(m map[string][]database.SignedTx, howMany int) []database.SignedTx {

	/*
		Bill: {TimeStamp: 20, Amount: 250},
			  {TimeStamp: 10, Amount: 150},
		Pavl: {TimeStamp: 15, Amount: 75},
		Edua: {TimeStamp: 30, Amount: 100},
			  {TimeStamp: 25, Amount: 75},
	*/

	// Sort the transactions per sender by age and the senders by address
	// so every node builds the same rows.
	senders := make([]string, 0, len(m))
	for key := range m {
		senders = append(senders, key)
		if len(m[key]) > 1 {
			sort.Sort(byAge(m[key]))
		}
	}
	sort.Strings(senders)

	// Pick the first transaction in the slice for each sender. Each iteration
	// represents a new row of selections. Keep doing that until all the
	// transactions have been selected.
	var rows [][]database.SignedTx
	for {
		var row []database.SignedTx
		for _, key := range senders {
			if len(m[key]) > 0 {
				row = append(row, m[key][0])
				m[key] = m[key][1:]
			}
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}

	/*
		0: Bill: {TimeStamp: 10, Amount: 150},
		0: Edua: {TimeStamp: 25, Amount: 75},
		0: Pavl: {TimeStamp: 15, Amount: 75},
		1: Bill: {TimeStamp: 20, Amount: 250},
		1: Edua: {TimeStamp: 30, Amount: 100},
	*/

	if howMany == -1 {
		howMany = 0
		for _, row := range rows {
			howMany += len(row)
		}
	}

	// Sort each row by age unless we will take all transactions from that
	// row anyway.
	final := []database.SignedTx{}
done:
	for _, row := range rows {
		need := howMany - len(final)
		if len(row) > need {
			sort.Sort(byAge(row))
			final = append(final, row[:need]...)
			break done
		}
		final = append(final, row...)
	}

	return final
}
