// Package source reads record lists from files: JSON (comments and trailing
// commas allowed), YAML, CSV and TSV. Loaders keep the order in which fields
// first appear so an automatic view shows columns the way the file has them.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

// Format identifies a record file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Dataset is a loaded record list plus its field names in first-seen order
type Dataset struct {
	Keys    []string
	Records []datatable.Record
}

// envelopeKeys are the fields ERP endpoints wrap record lists in, checked in
// this order when a document is an object instead of a list.
var envelopeKeys = []string{"data", "items", "records", "rows", "approvals", "products", "details"}

// ParseFormat maps a --format value or file extension to a Format
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json", "jsonc":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "csv":
		return FormatCSV, true
	case "tsv", "tab":
		return FormatTSV, true
	}
	return "", false
}

// FormatOf returns the format implied by path's extension
func FormatOf(path string) (Format, error) {
	f, ok := ParseFormat(filepath.Ext(path))
	if !ok {
		return "", util.UnsupportedFormatError(path)
	}
	return f, nil
}

// LoadFile reads path, choosing the loader by extension
func LoadFile(path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, util.SourceReadError(path, err)
	}
	defer f.Close()

	ds, err := Load(f, format)
	if err != nil {
		return nil, util.SourceReadError(path, err)
	}
	return ds, nil
}

// Load reads a whole document from r in the given format
func Load(r io.Reader, format Format) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// Exports saved by Windows tools often start with a BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	switch format {
	case FormatJSON:
		return loadJSON(data)
	case FormatYAML:
		return loadYAML(data)
	case FormatCSV:
		return loadDelimited(data, 0)
	case FormatTSV:
		return loadDelimited(data, '\t')
	}
	return nil, fmt.Errorf("%q: %w", format, util.ErrUnsupportedFormat)
}

// keyOrder collects field names in first-seen order
type keyOrder struct {
	seen map[string]bool
	keys []string
}

func (k *keyOrder) add(key string) {
	if k.seen == nil {
		k.seen = make(map[string]bool)
	}
	if !k.seen[key] {
		k.seen[key] = true
		k.keys = append(k.keys, key)
	}
}
