package storage

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/assetcanvas/pkg/errors"
)

// encodeSnapshot packs s with msgpack, reusing the JSON field names so the
// stored keys match the export format.
func encodeSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetOmitEmpty(true)
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "encode snapshot")
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&s); err != nil {
		return s, errors.Wrap(errors.ErrCodeStorage, err, "decode snapshot")
	}
	return s, nil
}
