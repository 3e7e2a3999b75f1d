package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"playbook-pipeline/internal/domains/playbook/model"
)

const utf8BOM = "\ufeff"

func decodeCSV(raw []byte) ([]model.Record, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = 0 // every row must match the header

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, &model.ParseError{Format: string(CSV), Detail: "invalid header: " + err.Error(), Err: err}
	}

	// Build column map from header
	colIdx := make(map[int]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		if name == "" || model.IsServerAssigned(name) {
			continue
		}
		colIdx[i] = name
	}

	records := make([]model.Record, 0)
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.ParseError{Format: string(CSV), Row: row, Detail: csvErrorDetail(err), Err: err}
		}

		rec := model.Record{}
		for i, cell := range cells {
			column, ok := colIdx[i]
			if !ok || cell == "" {
				continue
			}
			value, err := decodeCell(column, cell)
			if err != nil {
				return nil, &model.ParseError{
					Format: string(CSV),
					Row:    row,
					Detail: fmt.Sprintf("column %s: %v", column, err),
					Err:    err,
				}
			}
			rec[column] = value
		}
		records = append(records, rec)
	}

	return records, nil
}

func csvErrorDetail(err error) string {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("line %d: %v", parseErr.Line, parseErr.Err)
	}
	return err.Error()
}

func decodeCell(column, cell string) (any, error) {
	switch {
	case isListField(column):
		return splitList(cell, listSeparator(column)), nil
	case isObjectField(column):
		var v any
		if err := json.Unmarshal([]byte(cell), &v); err != nil {
			return nil, fmt.Errorf("invalid embedded JSON: %w", err)
		}
		return v, nil
	case isPriceField(column):
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	case column == model.FieldIsActive:
		return cell == "true" || cell == "1", nil
	}
	return cell, nil
}

func splitList(cell, sep string) []any {
	parts := strings.Split(cell, sep)
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func encodeCSV(records []model.Record, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for i, rec := range records {
		for j, col := range columns {
			cell, err := encodeCell(col, rec[col])
			if err != nil {
				return nil, fmt.Errorf("failed to encode row %d column %s: %w", i+1, col, err)
			}
			row[j] = cell
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeCell(column string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return model.FormatNumber(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case []string:
		return strings.Join(t, listSeparator(column)), nil
	case []any:
		if isListField(column) {
			parts := make([]string, 0, len(t))
			for _, e := range t {
				parts = append(parts, fmt.Sprint(e))
			}
			return strings.Join(parts, listSeparator(column)), nil
		}
	}
	b, err := marshalNoEscape(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
