package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"playbook-pipeline/internal/domains/playbook/model"
)

func decodeJSON(raw []byte) ([]model.Record, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &model.ParseError{Format: string(JSON), Detail: jsonErrorDetail(err), Err: err}
	}

	var items []any
	switch v := parsed.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["items"].([]any)
	}

	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		rec := model.Record{}
		if obj, ok := item.(map[string]any); ok {
			for k, val := range obj {
				if val == nil || model.IsServerAssigned(k) {
					continue
				}
				rec[k] = val
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func jsonErrorDetail(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("%s at offset %d", syntaxErr.Error(), syntaxErr.Offset)
	}
	return err.Error()
}

// orderedRecord marshals a record with its keys in column order.
type orderedRecord struct {
	rec     model.Record
	columns []string
}

func (o orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(col)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(o.rec[col])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type jsonExport struct {
	Items []orderedRecord `json:"items"`
}

func encodeJSON(records []model.Record, columns []string) ([]byte, error) {
	doc := jsonExport{Items: make([]orderedRecord, 0, len(records))}
	for _, rec := range records {
		doc.Items = append(doc.Items, orderedRecord{rec: rec, columns: columns})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode json export: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
