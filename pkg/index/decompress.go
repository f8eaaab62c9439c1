package index

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Decompress wraps r with the decoder matching the compression suffix of
// name (.gz, .xz, .zst). Other names are returned unwrapped. Closing the
// result releases the decoder but not r.
func Decompress(r io.Reader, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzReader, nil

	case strings.HasSuffix(name, ".xz"):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(xzReader), nil

	case strings.HasSuffix(name, ".zst"):
		zstdReader, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zstdReader.IOReadCloser(), nil

	default:
		return io.NopCloser(r), nil
	}
}
