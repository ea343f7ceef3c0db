package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/util"
)

func loadYAML(data []byte) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Dataset{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return decodeRecordSequence(root)
	case yaml.MappingNode:
		for _, k := range envelopeKeys {
			if v := mappingValue(root, k); v != nil && v.Kind == yaml.SequenceNode {
				return decodeRecordSequence(v)
			}
		}
		return decodeRecordSequence(&yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{root}})
	}
	return nil, util.ErrNotRecordList
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// decodeRecordSequence reads mapping nodes pairwise so keys keep file order
func decodeRecordSequence(seq *yaml.Node) (*Dataset, error) {
	var order keyOrder
	records := make([]datatable.Record, 0, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("record %d (line %d): %w", i+1, item.Line, util.ErrNotRecordList)
		}
		rec := make(datatable.Record, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key := item.Content[j].Value
			var value any
			if err := item.Content[j+1].Decode(&value); err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i+1, key, err)
			}
			rec[key] = value
			order.add(key)
		}
		records = append(records, rec)
	}
	return &Dataset{Keys: order.keys, Records: records}, nil
}
