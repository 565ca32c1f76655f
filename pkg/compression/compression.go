package compression

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Threshold is the smallest payload worth compressing
const Threshold = 1024 // 1KB

// Compress gzips data when it is at least Threshold bytes long and the
// result is smaller. ok reports whether out is compressed.
func Compress(data []byte) (out []byte, ok bool, err error) {
	if len(data) < Threshold {
		return data, false, nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, false, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, false, err
	}
	if err := zw.Close(); err != nil {
		return nil, false, err
	}

	// already-compressed formats such as PNG rarely shrink
	if buf.Len() >= len(data) {
		return data, false, nil
	}
	return buf.Bytes(), true, nil
}

// Decompress reverses Compress
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
