package emu

import (
	"errors"
	"io"
	"os"
)

// FileRomReader implements cart.RomReader by reading from an *os.File,
// letting a host stream a large ROM from disk instead of holding the
// whole image resident.
type FileRomReader struct {
	f *os.File
}

// OpenROM opens path for reading and wraps it as a FileRomReader. The
// caller is responsible for calling Close once the emulator built from it
// is discarded.
func OpenROM(path string) (*FileRomReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileRomReader{f: f}, nil
}

// ReadInto fills buf from the underlying file starting at offset,
// zero-padding anything past end-of-file.
func (r *FileRomReader) ReadInto(buf []byte, offset int64) error {
	for i := range buf {
		buf[i] = 0
	}
	_, err := r.f.ReadAt(buf, offset)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Close closes the underlying file.
func (r *FileRomReader) Close() error { return r.f.Close() }
