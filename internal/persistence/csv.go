// Package persistence reads and writes the derived data set: the catalog
// CSV, alias records, linker reports and an optional SQLite export.
package persistence

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

// AliasHeader is the column layout of aliases.csv.
var AliasHeader = []string{"alias", "lang_id", "source"}

// MissingHeader is the column layout of a linker's missing report.
var MissingHeader = []string{"foreign_name", "reference"}

// WriteCatalog writes cat as CSV in its column order.
func WriteCatalog(path string, cat *catalogs.Catalog) error {
	rows := make([][]string, 0, cat.Len())
	for _, l := range cat.Languages() {
		rows = append(rows, cat.Row(l))
	}
	return WriteRows(path, cat.Columns(), rows)
}

// ReadCatalog reads a catalog CSV. Linked sources are recovered from the
// header; derived and unknown columns are ignored.
func ReadCatalog(path string) (*catalogs.Catalog, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	langs := make([]*catalogs.Language, 0, len(rows))
	for i, row := range rows {
		l, err := catalogs.ParseRow(header, row)
		if err != nil {
			pe := errors.NewParseError("csv", path, err.Error(), err)
			pe.Line = i + 2
			return nil, pe
		}
		langs = append(langs, l)
	}
	cat := catalogs.New(langs, nil)
	if err := cat.Validate(); err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	for _, src := range catalogs.ParseHeader(header) {
		cat.MarkLinked(src)
	}
	return cat, nil
}

// ReadCatalogWithAliases reads a catalog and attaches the alias records
// at aliasesPath. A missing alias file leaves the catalog without records.
func ReadCatalogWithAliases(path, aliasesPath string) (*catalogs.Catalog, error) {
	cat, err := ReadCatalog(path)
	if err != nil {
		return nil, err
	}
	records, err := ReadAliases(aliasesPath)
	if errors.IsNotFound(err) {
		return cat, nil
	}
	if err != nil {
		return nil, err
	}
	return cat.WithAliases(records), nil
}

// WriteAliases writes alias records.
func WriteAliases(path string, records []catalogs.AliasRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.Alias, r.LanguageID, r.Source}
	}
	return WriteRows(path, AliasHeader, rows)
}

// ReadAliases reads alias records written by WriteAliases.
func ReadAliases(path string) ([]catalogs.AliasRecord, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, h := range AliasHeader {
		if _, ok := col[h]; !ok {
			return nil, errors.NewParseError("csv", path, "missing column "+h, nil)
		}
	}
	out := make([]catalogs.AliasRecord, len(rows))
	for i, row := range rows {
		out[i] = catalogs.AliasRecord{
			Alias:      row[col["alias"]],
			LanguageID: row[col["lang_id"]],
			Source:     row[col["source"]],
		}
	}
	return out, nil
}

// WriteRows writes a header and rows to path, replacing any existing file
// only once the new content is complete.
func WriteRows(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := writeCSV(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadRows reads a CSV file into its header and rows. Short rows are padded
// to the header width.
func ReadRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.NewNotFoundError("csv", path)
	}
	if err != nil {
		return nil, nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, errors.WrapParse("csv", path, err)
	}
	if len(records) == 0 {
		return nil, nil, errors.NewParseError("csv", path, "empty file", nil)
	}
	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		if len(row) < len(header) {
			rows[i] = append(row, make([]string, len(header)-len(row))...)
		} else if len(row) > len(header) {
			rows[i] = row[:len(header)]
		}
	}
	return header, rows, nil
}
