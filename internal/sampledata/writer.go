package sampledata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/okian/rosterlens/internal/domain/model"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o640
	unknownRoster       = "-"
	sheetName           = "Sheet1"
)

var header = []string{ //nolint:gochecknoglobals // fixed column order
	model.ColumnRank, model.ColumnPlayer, model.ColumnPoints,
	model.ColumnPointsPerGame, model.ColumnGames, model.ColumnRoster,
}

func cells(i int, l line) []string {
	rost := unknownRoster
	if !l.player.unknown {
		rost = strconv.FormatFloat(l.player.roster*100, 'f', 1, 64) + "%"
	}
	return []string{
		strconv.Itoa(i + 1),
		l.player.label,
		strconv.FormatFloat(l.points, 'f', 1, 64),
		strconv.FormatFloat(l.perGame, 'f', 1, 64),
		strconv.Itoa(l.games),
		rost,
	}
}

// writeTable writes rows to dir/<category>.<format>.
func writeTable(dir string, cat model.Category, format string, rows []line) (string, error) {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, string(cat)+"."+format)
	var err error
	switch format {
	case FormatXLSX:
		err = writeXLSX(path, rows)
	default:
		err = writeCSV(path, rows)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func writeCSV(path string, rows []line) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermission) //nolint:gosec // path is built from config
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, l := range rows {
		if err := w.Write(cells(i, l)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, rows []line) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	put := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = v
		}
		return f.SetSheetRow(sheetName, cell, &out)
	}

	if err := put(1, header); err != nil {
		return err
	}
	for i, l := range rows {
		if err := put(i+2, cells(i, l)); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
