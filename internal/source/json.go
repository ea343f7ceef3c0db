package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

func loadJSON(data []byte) (*Dataset, error) {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) == 0 {
		return &Dataset{}, nil
	}

	list := stripped
	if stripped[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(stripped, &obj); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		list = nil
		for _, k := range envelopeKeys {
			if raw, ok := obj[k]; ok && isArray(raw) {
				list = raw
				break
			}
		}
		if list == nil {
			// A single object is a one-record list
			list = append(append([]byte{'['}, stripped...), ']')
		}
	}

	return decodeRecordArray(list)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeRecordArray walks the array token by token so object keys keep their
// document order. Numbers stay json.Number to avoid float rounding of codes
// and amounts.
func decodeRecordArray(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var order keyOrder
	var records []datatable.Record
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		rec := make(datatable.Record)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parsing JSON: %w", err)
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("parsing JSON: unexpected %v", tok)
			}
			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("parsing JSON field %q: %w", key, err)
			}
			rec[key] = value
			order.add(key)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	return &Dataset{Keys: order.keys, Records: records}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		if want == '[' || want == '{' {
			return util.ErrNotRecordList
		}
		return fmt.Errorf("parsing JSON: expected %q, got %v", want, tok)
	}
	return nil
}
