package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

// loadDelimited reads CSV or TSV. A zero comma sniffs ';' versus ',' from the
// header line, since spreadsheet exports in pt-BR locales use semicolons.
// Every value is a string; Coerce turns typed columns into numbers or dates.
func loadDelimited(data []byte, comma rune) (*Dataset, error) {
	text := util.ToValidUTF8(string(data))

	if comma == 0 {
		comma = sniffComma(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var order keyOrder
	keys := make([]string, len(header))
	for i, h := range header {
		h = util.CleanCell(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		keys[i] = h
		order.add(h)
	}

	var records []datatable.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+2, err)
		}
		if blankRow(row) {
			continue
		}
		rec := make(datatable.Record, len(keys))
		for i, k := range keys {
			if i < len(row) {
				rec[k] = util.CleanCell(row[i])
			}
		}
		records = append(records, rec)
	}

	return &Dataset{Keys: order.keys, Records: records}, nil
}

func sniffComma(text string) rune {
	line := text
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		line = text[:nl]
	}
	semis, commas, tabs := 0, 0, 0
	for _, c := range line {
		switch c {
		case ';':
			semis++
		case ',':
			commas++
		case '\t':
			tabs++
		}
	}
	switch {
	case tabs > semis && tabs > commas:
		return '\t'
	case semis > commas:
		return ';'
	}
	return ','
}

func blankRow(row []string) bool {
	for _, v := range row {
		if util.CleanCell(v) != "" {
			return false
		}
	}
	return true
}
