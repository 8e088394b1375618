package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maruel/tableview/internal/listmodel"
)

// ReadFile decodes the records stored at path. A missing file holds no record.
func ReadFile(path string, f Format) ([]listmodel.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	records, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Load replaces the content of l with the records stored at path.
func Load(path string, f Format, l *listmodel.RecordList) error {
	records, err := ReadFile(path, f)
	if err != nil {
		return err
	}
	if !l.SetStorage(records) {
		return fmt.Errorf("%s: list %s rejected the records", path, l.Name())
	}
	return nil
}

// Save writes the visible content of l to path.
//
// The file is written next to path then renamed over it, so readers never see
// a partial file.
func Save(path string, f Format, l *listmodel.RecordList) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file for %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if err := Encode(tmp, f, l.ToValueList()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
