package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/maruel/tableview/internal/listmodel"
	"gopkg.in/yaml.v3"
)

// Decode reads every record encoded in f from r.
//
// Blank JSONL lines are skipped. A null record is an error since lists reject
// nil records.
func Decode(r io.Reader, f Format) ([]listmodel.Record, error) {
	var records []listmodel.Record
	switch f {
	case JSONL:
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			data := bytes.TrimSpace(scanner.Bytes())
			if len(data) == 0 {
				continue
			}
			var rec listmodel.Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return nil, fmt.Errorf("failed to unmarshal line %d: %w", line, err)
			}
			records = append(records, rec)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read records: %w", err)
		}
	case JSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q", errUnknownFormat, f)
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("record %d is null", i)
		}
	}
	return records, nil
}

// Encode writes records to w in f.
func Encode(w io.Writer, f Format, records []listmodel.Record) error {
	switch f {
	case JSONL:
		writer := bufio.NewWriter(w)
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
			if _, err := writer.Write(data); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
			if err := writer.WriteByte('\n'); err != nil {
				return fmt.Errorf("failed to write newline: %w", err)
			}
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush writer: %w", err)
		}
		return nil
	case JSON:
		if records == nil {
			records = []listmodel.Record{}
		}
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(records); err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		return nil
	case YAML:
		if records == nil {
			records = []listmodel.Record{}
		}
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(records); err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		if err := e.Close(); err != nil {
			return fmt.Errorf("failed to flush records: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownFormat, f)
	}
}
