package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/maruel/tableview/internal/columnar"
	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/helper"
	"github.com/maruel/tableview/internal/listmodel"
	"github.com/maruel/tableview/internal/loader"
	"github.com/maruel/tableview/internal/matcher"
)

// query holds the per invocation operations.
type query struct {
	get      int
	find     string
	sorted   bool
	isSorted string
	set      string
	arrow    bool
	parquet  string
}

func (q *query) empty() bool {
	return q.get < 0 && q.find == "" && q.isSorted == "" && q.set == "" && !q.arrow && q.parquet == ""
}

type findResult struct {
	Property string           `json:"property"`
	Value    any              `json:"value"`
	Rows     []int            `json:"rows"`
	Records  []map[string]any `json:"records"`
}

type sortedResult struct {
	Property string `json:"property"`
	Sorted   bool   `json:"sorted"`
}

type setResult struct {
	Row      int    `json:"row"`
	Property string `json:"property"`
	Value    any    `json:"value"`
	OK       bool   `json:"ok"`
}

type arrowResult struct {
	Schema string `json:"schema"`
	Rows   int64  `json:"rows"`
}

// run loads the records, applies q and prints each result to w as JSON.
func run(ctx context.Context, cfg *Config, q *query, w io.Writer) error {
	loop := eventloop.New()
	l := listmodel.NewRecordList(listmodel.Options{Name: filepath.Base(cfg.File), Loop: loop})
	format := loader.Format(cfg.Format)
	if err := loader.Load(cfg.File, format, l); err != nil {
		return err
	}
	l.SetReadOnly(cfg.ReadOnly)
	h := helper.Must(l)
	defer h.Close()
	h.Backup()
	slog.Debug("Loaded", "file", cfg.File, "rows", h.Len(), "roles", len(h.RoleNames()))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if q.set != "" {
		res, err := applySet(h, q.set)
		if err != nil {
			return err
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if q.get >= 0 {
		rec := h.Get(q.get)
		if rec == nil {
			return fmt.Errorf("row %d out of range [0, %d)", q.get, h.RowCount())
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if q.find != "" {
		res, err := find(h, loop, q.find, q.sorted)
		if err != nil {
			return err
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if q.isSorted != "" {
		if h.RoleForName(q.isSorted) < 0 {
			return fmt.Errorf("unknown property %q", q.isSorted)
		}
		if err := enc.Encode(sortedResult{Property: q.isSorted, Sorted: h.IsSorted(q.isSorted)}); err != nil {
			return err
		}
	}
	if q.arrow || q.parquet != "" {
		rec := columnar.Snapshot(h, nil)
		defer rec.Release()
		if q.arrow {
			if err := enc.Encode(arrowResult{Schema: rec.Schema().String(), Rows: rec.NumRows()}); err != nil {
				return err
			}
		}
		if q.parquet != "" {
			if err := writeParquet(q.parquet, rec); err != nil {
				return err
			}
		}
	}
	if q.empty() {
		if err := enc.Encode(h.ToValueList()); err != nil {
			return err
		}
	}
	if cfg.Out != "" {
		outFormat, _ := loader.FormatFromPath(cfg.Out)
		if cfg.Out == cfg.File && !h.HasChanged() {
			slog.Info("Nothing changed", "file", cfg.Out)
		} else if err := loader.Save(cfg.Out, outFormat, l); err != nil {
			return err
		}
	}
	if !cfg.Watch {
		return nil
	}
	return watch(ctx, cfg, l, h)
}

// watch reloads the list until ctx is canceled, logging each change against
// the previous content.
func watch(ctx context.Context, cfg *Config, l *listmodel.RecordList, h *helper.Helper) error {
	opts := loader.WatchOptions{
		Interval: cfg.WatchInterval,
		OnReload: func(err error) {
			if err != nil {
				return
			}
			slog.Info("Reloaded", "file", cfg.File, "rows", h.Len(), "changed", h.HasChanged())
			h.Backup()
		},
	}
	if err := loader.Watch(ctx, cfg.File, loader.Format(cfg.Format), l, opts); err != nil {
		return err
	}
	slog.Info("Watching", "file", cfg.File)
	err := l.Loop().Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// find returns the rows matching "name=value".
func find(h *helper.Helper, loop *eventloop.Loop, expr string, sorted bool) (*findResult, error) {
	name, raw, ok := strings.Cut(expr, "=")
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid -find %q, want name=value", expr)
	}
	if h.RoleForName(name) < 0 {
		return nil, fmt.Errorf("unknown property %q", name)
	}
	value := parseValue(raw)
	m := matcher.New(h, loop)
	defer m.Close()
	m.SetRoleName(name)
	m.SetValue(value)
	m.SetSorted(sorted)
	res := &findResult{Property: name, Value: value, Rows: m.Indexes()}
	if res.Rows == nil {
		res.Rows = []int{}
	}
	res.Records = make([]map[string]any, len(res.Rows))
	for i, row := range res.Rows {
		res.Records[i] = h.Get(row)
	}
	return res, nil
}

// applySet writes "ROW:name=value".
func applySet(h *helper.Helper, expr string) (*setResult, error) {
	rowStr, assign, ok := strings.Cut(expr, ":")
	if !ok {
		return nil, fmt.Errorf("invalid -set %q, want ROW:name=value", expr)
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid -set row %q: %w", rowStr, err)
	}
	name, raw, ok := strings.Cut(assign, "=")
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid -set %q, want ROW:name=value", expr)
	}
	res := &setResult{Row: row, Property: name}
	res.OK = h.SetProperty(row, name, parseValue(raw))
	res.Value = h.GetProperty(row, name)
	return res, nil
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func writeParquet(path string, rec arrow.Record) error {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from the -parquet flag
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	// The parquet writer closes f on success.
	defer func() { _ = f.Close() }()
	return columnar.WriteParquet(f, rec)
}
