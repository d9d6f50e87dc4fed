package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// columnAliases maps lower-cased normalized headers to canonical column names.
var columnAliases = map[string]string{ //nolint:gochecknoglobals // lookup table
	"player":         model.ColumnPlayer,
	"name":           model.ColumnPlayer,
	"fpts":           model.ColumnPoints,
	"fantasy points": model.ColumnPoints,
	"fpts/g":         model.ColumnPointsPerGame,
	"g":              model.ColumnGames,
	"gp":             model.ColumnGames,
	"games":          model.ColumnGames,
	"rost":           model.ColumnRoster,
	"rost%":          model.ColumnRoster,
	"rost %":         model.ColumnRoster,
	"rank":           model.ColumnRank,
	"rk":             model.ColumnRank,
	"#":              model.ColumnRank,
}

// NormalizeHeader trims whitespace, strips quote characters and a leading
// byte-order mark, then resolves known aliases to canonical names.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.NewReplacer(`"`, "", "'", "").Replace(h)
	h = strings.TrimSpace(h)
	if canonical, ok := columnAliases[strings.ToLower(h)]; ok {
		return canonical
	}
	return h
}

// ParseFile reads one source into a table. The returned error is a
// file-level failure; row-level failures are returned as warnings and the
// offending rows are left out of the table.
func ParseFile(path string, scope model.Scope) (*model.Table, []error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path) //nolint:gosec // path comes from directory discovery
		if err != nil {
			return nil, nil, openError(path, err)
		}
		defer func() { _ = f.Close() }()
		return ParseCSV(f, path, scope)
	case ".xlsx":
		return parseXLSX(path, scope)
	default:
		return nil, nil, &model.ParseError{Path: path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
}

// ParseCSV parses CSV content from r. name is used in error messages.
func ParseCSV(r io.Reader, name string, scope model.Scope) (*model.Table, []error, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty source")
		}
		return nil, nil, &model.ParseError{Path: name, Err: err}
	}
	b, err := newTableBuilder(name, scope, header)
	if err != nil {
		return nil, nil, err
	}

	for row := 1; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				b.warn(row, "", err)
				continue
			}
			return nil, nil, &model.ParseError{Path: name, Row: row, Err: err}
		}
		b.add(row, cells)
	}
	return b.table, b.warnings, nil
}

// parseXLSX reads the first sheet of a workbook.
func parseXLSX(path string, scope model.Scope) (*model.Table, []error, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, openError(path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &model.ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &model.ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, &model.ParseError{Path: path, Err: errors.New("empty source")}
	}
	b, err := newTableBuilder(path, scope, rows[0])
	if err != nil {
		return nil, nil, err
	}
	for i, cells := range rows[1:] {
		b.add(i+1, cells)
	}
	return b.table, b.warnings, nil
}

func openError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", model.ErrSourceNotFound, path)
	}
	return &model.ParseError{Path: path, Err: err}
}

// tableBuilder converts raw rows into records.
type tableBuilder struct {
	name     string
	table    *model.Table
	index    map[string]int
	warnings []error
}

func newTableBuilder(name string, scope model.Scope, header []string) (*tableBuilder, error) {
	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
		if _, dup := index[columns[i]]; !dup {
			index[columns[i]] = i
		}
	}
	if _, ok := index[model.ColumnPlayer]; !ok {
		return nil, &model.ParseError{Path: name, Err: fmt.Errorf("%w: %q", model.ErrMissingColumn, model.ColumnPlayer)}
	}
	return &tableBuilder{
		name:  name,
		index: index,
		table: &model.Table{Scope: scope, Source: name, Columns: columns},
	}, nil
}

func (b *tableBuilder) warn(row int, column string, err error) {
	b.warnings = append(b.warnings, &model.ParseError{Path: b.name, Row: row, Column: column, Err: err})
}

// cell returns the trimmed value of column in cells and whether the column exists.
func (b *tableBuilder) cell(cells []string, column string) (string, bool) {
	i, ok := b.index[column]
	if !ok {
		return "", false
	}
	if i >= len(cells) {
		return "", true
	}
	return strings.TrimSpace(cells[i]), true
}

func (b *tableBuilder) add(row int, cells []string) {
	if blank(cells) {
		return
	}
	label, _ := b.cell(cells, model.ColumnPlayer)
	if label == "" {
		b.warn(row, model.ColumnPlayer, errors.New("empty player label"))
		return
	}
	rec := model.Record{
		Label:       label,
		Category:    b.table.Scope.Category,
		GamesPlayed: 1,
		Row:         len(b.table.Records),
	}

	if v, ok := b.cell(cells, model.ColumnPoints); ok {
		pts, err := parseNumber(v)
		if err != nil {
			b.warn(row, model.ColumnPoints, err)
			return
		}
		rec.FantasyPoints = math.Max(0, pts)
	}

	if v, ok := b.cell(cells, model.ColumnGames); ok && v != "" {
		g, err := parseNumber(v)
		if err != nil || g < 0 || g != math.Trunc(g) {
			if err == nil {
				err = fmt.Errorf("games played must be a non-negative integer, got %q", v)
			}
			b.warn(row, model.ColumnGames, err)
			return
		}
		rec.GamesPlayed = int(g)
	}

	if v, ok := b.cell(cells, model.ColumnPointsPerGame); ok {
		if ppg, err := parseNumber(v); err == nil {
			rec.PointsPerGame = &ppg
		}
	}

	if v, ok := b.cell(cells, model.ColumnRoster); ok {
		rec.RosterPercentage, rec.RosterKnown = ParseRosterPercentage(v)
	}

	if v, ok := b.cell(cells, model.ColumnRank); ok {
		if rank, err := strconv.Atoi(v); err == nil {
			rec.Rank = &rank
		}
	}

	b.table.Records = append(b.table.Records, rec)
}

// ParseRosterPercentage converts "45.5%" (or "45.5") into 0.455. Unparsable
// input yields (0, false). The result is clamped to [0,1].
func ParseRosterPercentage(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Min(1, math.Max(0, v/100)), true
}

// parseNumber accepts thousands separators ("1,024.5").
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
