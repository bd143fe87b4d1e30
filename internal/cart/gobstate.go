package cart

import (
	"bytes"
	"encoding/gob"
)

// encodeGob serializes v with encoding/gob, matching the save-state
// convention used throughout this core.
func encodeGob(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		// Only occurs for unencodable types, which is a programmer error,
		// not a runtime condition callers need to recover from.
		panic(err)
	}
	return buf.Bytes()
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// SliceRomReader implements RomReader directly over an in-memory ROM
// image. It is the reader a host uses when it already has the whole ROM
// loaded (tests, or small ROMs where holding it resident costs nothing);
// a host streaming from disk supplies its own RomReader instead.
type SliceRomReader struct {
	ROM []byte
}

// ReadInto copies len(buf) bytes starting at offset, zero-padding any
// portion that runs past the end of ROM.
func (r SliceRomReader) ReadInto(buf []byte, offset int64) error {
	for i := range buf {
		buf[i] = 0
	}
	if offset >= int64(len(r.ROM)) {
		return nil
	}
	n := copy(buf, r.ROM[offset:])
	_ = n
	return nil
}
