// export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jszwec/csvutil"
)

const timestampLayout = "20060102_150405"

// TimestampedPath returns dir/prefix_YYYYMMDD_HHMMSS.ext.
func TimestampedPath(dir, prefix, ext string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, now.Format(timestampLayout), ext))
}

// WriteJSON writes v as indented JSON. Chinese text and '&' in URLs are
// written as-is rather than escaped.
func WriteJSON(path string, v any) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON to %s: %w", path, err)
	}
	log.Printf("Export: wrote %s\n", path)
	return nil
}

// WriteCSV writes rows, a slice of structs with csv tags, with a header
// line.
func WriteCSV(path string, rows any) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode CSV to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV to %s: %w", path, err)
	}
	log.Printf("Export: wrote %s\n", path)
	return nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
