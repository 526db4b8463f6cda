package espm

import (
	"encoding/binary"
	"io"

	"go.uber.org/zap"
)

// ScanDump carves candidate records out of a big-endian Xbox 360 process
// memory dump. There is no reliable framing in a dump - we slide over the
// buffer looking for known record signatures with plausible headers and keep
// whatever decodes cleanly. Garbage, truncation and duplicates are all
// expected: a bad candidate is skipped, a duplicate FormID loses to the first
// occurrence via the store.
func ScanDump(r io.Reader, log *zap.Logger) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	store := NewStore()
	order := binary.BigEndian

	candidates, rejected := 0, 0
	for pos := 0; pos+headerLen <= len(data); {
		sig := string(data[pos : pos+4])
		if _, known := sigKinds[sig]; !known {
			pos++
			continue
		}

		dataSize := int(order.Uint32(data[pos+4 : pos+8]))
		flags := order.Uint32(data[pos+8 : pos+12])
		formID := FormID(order.Uint32(data[pos+12 : pos+16]))

		if formID.IsNull() || dataSize == 0 || dataSize > maxSaneDataSize || pos+headerLen+dataSize > len(data) {
			pos++
			continue
		}
		if flags&compressedFlag != 0 {
			// records in process memory have already been decompressed by the
			// game - a set compression flag means we are looking at file
			// cache noise, not a live record
			pos++
			continue
		}
		candidates++

		body := data[pos+headerLen : pos+headerLen+dataSize]
		rec, derr := decodeRecordBody(order, sig, formID, body, FromDump)
		if derr != nil {
			rejected++
			pos++
			continue
		}
		store.Insert(rec)
		pos += headerLen + dataSize
	}

	log.Debug("Dump scan finished",
		zap.Int("records", store.Len()),
		zap.Int("duplicates", store.Duplicates()),
		zap.Int("candidates", candidates),
		zap.Int("rejected", rejected))
	return store, nil
}
