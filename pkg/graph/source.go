package graph

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SnappySuffix marks snappy-framed edge lists and reports.
const SnappySuffix = ".sz"

type sourceReader struct {
	io.Reader
	close func() error
}

func (s *sourceReader) Close() error {
	return s.close()
}

// Open returns a reader over an edge list. "-" reads stdin, a ".sz" suffix
// selects snappy stream decoding, and any other path is memory-mapped.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	if strings.HasSuffix(path, SnappySuffix) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open edge list %s: %w", path, err)
		}
		return &sourceReader{Reader: snappy.NewReader(f), close: f.Close}, nil
	}

	ra, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map edge list %s: %w", path, err)
	}
	return &sourceReader{
		Reader: io.NewSectionReader(ra, 0, int64(ra.Len())),
		close:  ra.Close,
	}, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts ...LoadOption) (*Index, *LoadStats, error) {
	r, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return Load(r, opts...)
}
