package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"treelint/internal/errors"
)

// WriteFile renders a report into path via render. Paths ending in .gz are
// gzip-compressed transparently, so exported reports from large runs stay
// small.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(errors.FileUnreadable, fmt.Sprintf("cannot create %s", path), err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := render(w); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.New(errors.InternalError, "cannot finish gzip stream", err)
		}
	}
	return f.Close()
}
