package database

import (
	"strconv"
)

// EncodeTxs returns the canonical json encoding of a transaction sequence as
// it's fed into the block hash. An empty or nil sequence encodes as "[]".
//
// The encoding is written by hand because encoding/json escapes <, >, & and
// U+2028/U+2029, which would change the hash for those inputs. Here only the
// quote, the backslash, and control characters are escaped, fields keep their
// declared order, and there is no whitespace.
func EncodeTxs(trans []Tx) string {
	buf := make([]byte, 0, 2+len(trans)*96)

	buf = append(buf, '[')
	for i, tx := range trans {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendTx(buf, tx)
	}
	buf = append(buf, ']')

	return string(buf)
}

// appendTx appends the canonical object for a single transaction.
func appendTx(buf []byte, tx Tx) []byte {
	buf = append(buf, `{"sender":`...)
	buf = appendString(buf, tx.Sender)
	buf = append(buf, `,"receiver":`...)
	buf = appendString(buf, tx.Receiver)
	buf = append(buf, `,"amount":`...)
	buf = strconv.AppendUint(buf, tx.Amount, 10)
	buf = append(buf, `,"timestamp":`...)
	buf = strconv.AppendUint(buf, tx.TimeStamp, 10)
	buf = append(buf, '}')

	return buf
}

// appendString appends s as a minimally escaped json string.
func appendString(buf []byte, s string) []byte {
	const hex = "0123456789abcdef"

	buf = append(buf, '"')

	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}

		buf = append(buf, s[start:i]...)
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
		}
		start = i + 1
	}
	buf = append(buf, s[start:]...)

	buf = append(buf, '"')
	return buf
}
