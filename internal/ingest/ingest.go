package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/logx"
	"github.com/gridops/gridassess/internal/store"
)

// Storage is the slice of the store the importer needs.
type Storage interface {
	UpsertLeader(name, area string) error
	LeaderByName(name string) (store.Leader, error)
	BulkInsert(list []store.Assessment) error
}

// Result summarizes one import run. Errors holds the per-row failures of
// skipped rows; a non-empty Errors still means the remaining rows landed.
type Result struct {
	Leaders  int      `json:"leaders"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type Importer struct {
	storage Storage
	logger  logx.Logger
	now     func() time.Time
}

func NewImporter(storage Storage, logger logx.Logger) *Importer {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Importer{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Import loads a parsed table into the store: leaders first (deduplicated by
// name and area), then all assessment rows in one transaction. Rows that
// fail to parse are skipped and reported in Result.Errors; the returned
// error is reserved for structural failures (bad mapping, store errors).
func (imp *Importer) Import(table Table, m Mapping) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	colIdx := map[string]int{}
	for i, col := range table.Header {
		colIdx[col] = i
	}
	for _, col := range []string{m.Name, m.Area, m.Date} {
		if _, ok := colIdx[col]; !ok {
			return Result{}, fmt.Errorf("mapped column %q not present in file", col)
		}
	}
	for code, col := range m.Dimensions {
		if _, ok := colIdx[col]; !ok {
			return Result{}, fmt.Errorf("column %q mapped to dimension %s not present in file", col, code)
		}
	}

	cell := func(row []string, col string) string {
		i := colIdx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		res     Result
		rowErrs error
		batch   []store.Assessment
	)

	// Register leaders before resolving assessment rows against them.
	seenLeaders := map[string]bool{}
	for _, row := range table.Rows {
		name, area := cell(row, m.Name), cell(row, m.Area)
		if name == "" {
			continue
		}
		key := name + "\x00" + area
		if seenLeaders[key] {
			continue
		}
		seenLeaders[key] = true
		if err := imp.storage.UpsertLeader(name, area); err != nil {
			return res, fmt.Errorf("register leader %s: %w", name, err)
		}
		res.Leaders++
	}

	importDate := imp.now().Format(store.DateLayout)
	leaderIDs := map[string]int64{}

	for n, row := range table.Rows {
		rowNum := n + 2 // 1-based, after the header

		name := cell(row, m.Name)
		if name == "" {
			res.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: empty leader name", rowNum))
			continue
		}

		id, ok := leaderIDs[name]
		if !ok {
			leader, err := imp.storage.LeaderByName(name)
			if err != nil {
				res.Skipped++
				rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: leader %s: %w", rowNum, name, err))
				continue
			}
			id = leader.ID
			leaderIDs[name] = id
		}

		date, err := normalizeDate(cell(row, m.Date))
		if err != nil {
			res.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}

		scores := assess.Scores{}
		badRow := false
		for code, col := range m.Dimensions {
			raw := cell(row, col)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				res.Skipped++
				rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: dimension %s: bad number %q", rowNum, code, raw))
				badRow = true
				break
			}
			if !assess.Valid(v) {
				res.Skipped++
				rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: dimension %s: score %v out of range 0..100", rowNum, code, v))
				badRow = true
				break
			}
			scores[code] = v
		}
		if badRow {
			continue
		}

		batch = append(batch, store.Assessment{
			LeaderID:   id,
			Date:       date,
			Scores:     scores,
			ImportDate: importDate,
		})
	}

	if err := imp.storage.BulkInsert(batch); err != nil {
		return res, fmt.Errorf("import assessments: %w", err)
	}
	res.Imported = len(batch)
	for _, e := range multierr.Errors(rowErrs) {
		res.Errors = append(res.Errors, e.Error())
	}

	imp.logger.Infow("import finished",
		"leaders", res.Leaders,
		"imported", res.Imported,
		"skipped", res.Skipped,
	)
	return res, nil
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	store.DateLayout,
}

// normalizeDate parses the accepted date forms and renders the stored one.
func normalizeDate(raw string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(store.DateLayout), nil
		}
	}
	return "", fmt.Errorf("bad date %q: want YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", raw)
}
