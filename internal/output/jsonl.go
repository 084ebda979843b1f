package output

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/cyraxred/neodepends/internal/model"
)

// jsonlWriter writes one serialized record per line, all four resources
// interleaved in a single stream. When path ends in ".gz" the stream is
// transparently gzipped via klauspost/compress, which is a drop-in faster
// implementation of the same io.Writer-based API as the stdlib package.
type jsonlWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	buf *bufio.Writer
	gz  *gzip.Writer
	f   *os.File
}

func openJsonlWriter(path string, force bool) (Writer, error) {
	if err := checkOutputFile(path, force); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &jsonlWriter{f: f}
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(f)
		w.buf = bufio.NewWriter(w.gz)
	} else {
		w.buf = bufio.NewWriter(f)
	}
	w.enc = json.NewEncoder(w.buf)

	return w, nil
}

func checkOutputFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errOutputExists(path)
	}
	return nil
}

func (w *jsonlWriter) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

func (w *jsonlWriter) Supports(Resource) bool  { return true }
func (w *jsonlWriter) IsSingleStructure() bool { return false }

func (w *jsonlWriter) WriteEntity(e model.Entity) error   { return w.write(entityRow(e)) }
func (w *jsonlWriter) WriteDep(d model.EntityDep) error   { return w.write(entityDepRow(d)) }
func (w *jsonlWriter) WriteChange(c model.Change) error   { return w.write(changeRow(c)) }
func (w *jsonlWriter) WriteContent(c model.Content) error { return w.write(contentRow(c)) }

func (w *jsonlWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return err
		}
	}
	return w.f.Close()
}
