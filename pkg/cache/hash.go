package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// hashKey returns prefix:sha256(parts). Each part is length-prefixed so
// that no two part lists share an encoding.
func hashKey(prefix string, parts ...string) string {
	h := sha256.New()
	var buf []byte
	for _, p := range parts {
		buf = strconv.AppendInt(buf[:0], int64(len(p)), 10)
		buf = append(buf, ':')
		buf = append(buf, p...)
		h.Write(buf)
	}
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h.Sum(nil)))
}

// formatFloat encodes f exactly, including NaN and the infinities.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DatasetHash fingerprints records in order. Two slices hash alike only if
// they hold the same records in the same order, with instants compared in
// UTC.
func DatasetHash(records []interval.Record) string {
	h := sha256.New()
	var buf []byte
	for _, r := range records {
		buf = buf[:0]
		buf = r.Start.UTC().AppendFormat(buf, time.RFC3339Nano)
		buf = append(buf, 0)
		buf = r.End.UTC().AppendFormat(buf, time.RFC3339Nano)
		buf = append(buf, 0)
		buf = strconv.AppendQuote(buf, r.Buyer)
		buf = append(buf, 0)
		buf = strconv.AppendQuote(buf, r.Table)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, r.Rows, 10)
		buf = append(buf, '\n')
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
