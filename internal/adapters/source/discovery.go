// Package source discovers and parses the tabular exports that feed the data store.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/rosterlens/internal/domain/model"
)

// Default layout conventions.
const (
	DefaultWeekPrefix = "Week"
	DefaultSeasonDir  = "Full Season"
)

// supportedExtensions lists the file types a source may use.
var supportedExtensions = map[string]bool{".csv": true, ".xlsx": true} //nolint:gochecknoglobals // lookup table

// WeekUnit is one discovered week directory and its per-category files.
type WeekUnit struct {
	Week  model.WeekKey
	Dir   string
	Files map[model.Category]string
}

// Discovery locates week and season sources under a root directory.
type Discovery struct {
	root       string
	weekPrefix string
	seasonDir  string
	categories []model.Category
}

// Option applies a configuration option to the Discovery.
type Option func(*Discovery)

// WithWeekPrefix sets the directory-name prefix that marks a week unit.
func WithWeekPrefix(prefix string) Option {
	return func(d *Discovery) {
		if prefix != "" {
			d.weekPrefix = prefix
		}
	}
}

// WithSeasonDir sets the directory name holding season aggregates.
func WithSeasonDir(dir string) Option {
	return func(d *Discovery) {
		if dir != "" {
			d.seasonDir = dir
		}
	}
}

// WithCategories sets the categories to look for.
func WithCategories(categories []model.Category) Option {
	return func(d *Discovery) {
		if len(categories) > 0 {
			d.categories = append([]model.Category(nil), categories...)
		}
	}
}

// NewDiscovery creates a discovery rooted at root.
func NewDiscovery(root string, opts ...Option) *Discovery {
	d := &Discovery{
		root:       root,
		weekPrefix: DefaultWeekPrefix,
		seasonDir:  DefaultSeasonDir,
		categories: append([]model.Category(nil), model.DefaultCategories...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Categories returns the categories this discovery looks for.
func (d *Discovery) Categories() []model.Category {
	return append([]model.Category(nil), d.categories...)
}

// Weeks lists week units in chronological order. A directory whose ordinal
// repeats an earlier one is skipped and reported in the returned warnings.
func (d *Discovery) Weeks() ([]WeekUnit, []error, error) {
	entries, err := readDir(d.root)
	if err != nil {
		return nil, nil, err
	}

	var (
		units    []WeekUnit
		warnings []error
		seen     = make(map[int]string)
	)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), d.weekPrefix) {
			continue
		}
		week, err := model.ParseWeekKey(e.Name())
		if err != nil {
			continue
		}
		dir := filepath.Join(d.root, e.Name())
		if prev, dup := seen[week.Ordinal]; dup {
			warnings = append(warnings, &model.ParseError{
				Path: dir,
				Err:  fmt.Errorf("duplicate week ordinal %d (already loaded from %q)", week.Ordinal, prev),
			})
			continue
		}
		seen[week.Ordinal] = e.Name()

		files, err := d.categoryFiles(dir)
		if err != nil {
			warnings = append(warnings, &model.ParseError{Path: dir, Err: err})
			continue
		}
		units = append(units, WeekUnit{Week: week, Dir: dir, Files: files})
	}

	sort.SliceStable(units, func(i, j int) bool { return units[i].Week.Less(units[j].Week) })
	return units, warnings, nil
}

// Season returns the per-category season files.
func (d *Discovery) Season() (map[model.Category]string, error) {
	dir := filepath.Join(d.root, d.seasonDir)
	if _, err := readDir(d.root); err != nil {
		return nil, err
	}
	return d.categoryFiles(dir)
}

// categoryFiles picks, per category, the first file (by name) whose name
// contains the category token and has a supported extension.
func (d *Discovery) categoryFiles(dir string) (map[model.Category]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[model.Category]string, len(d.categories))
	for _, c := range d.categories {
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
				continue
			}
			ext := strings.ToLower(filepath.Ext(name))
			if !supportedExtensions[ext] {
				continue
			}
			if strings.Contains(strings.TrimSuffix(name, filepath.Ext(name)), string(c)) {
				files[c] = filepath.Join(dir, name)
				break
			}
		}
	}
	return files, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrSourceNotFound, dir)
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	return entries, nil
}
