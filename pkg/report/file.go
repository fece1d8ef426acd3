package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/scan"
)

// Write encodes res to w in the given format.
func Write(w io.Writer, res *scan.Result, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes res to path. "-" is stdout. A path ending in
// graph.SnappySuffix is written as a snappy stream.
func WriteFile(path string, res *scan.Result, format Format) (err error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if path == "-" || path == "" {
		return Write(os.Stdout, res, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()

	if strings.HasSuffix(path, graph.SnappySuffix) {
		sw := snappy.NewBufferedWriter(f)
		if err := Write(sw, res, format); err != nil {
			return err
		}
		return sw.Close()
	}

	bw := bufio.NewWriter(f)
	if err := Write(bw, res, format); err != nil {
		return err
	}
	return bw.Flush()
}
