package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/facetgrid/pkg/errors"
)

// Supported file formats for Load.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// ReadCSV decodes delimiter-separated text from r. The first record is the
// header row and names the columns; every following record is one row.
// Cells are kept verbatim apart from surrounding whitespace.
//
// ReadCSV returns an error if the header is missing, contains duplicate or
// empty column names, or if a record has the wrong number of fields.
func ReadCSV(r io.Reader, comma rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv: missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "csv: read header")
	}

	d, err := New(trimAll(header)...)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "csv: read row %d", d.Len()+1)
		}
		if err := d.Append(trimAll(rec)...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ReadXLSX decodes one worksheet of an Excel workbook. If sheet is empty
// the first sheet is used. The first non-empty row is the header row;
// short rows are padded with empty cells.
func ReadXLSX(r io.Reader, sheet string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "xlsx: open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "xlsx: workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "xlsx: sheet %q not found (available: %s)", sheet, errors.List(sheets))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "xlsx: read sheet %q", sheet)
	}
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "xlsx: sheet %q has no header row", sheet)
	}

	d, err := New(trimAll(rows[0])...)
	if err != nil {
		return nil, err
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		values := make([]string, width)
		copy(values, trimAll(row))
		if err := d.Append(values...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ReadJSON decodes a JSON array of flat objects. Columns are taken from
// object keys in first-seen order; a key missing from an object yields an
// empty cell. Numbers keep their literal text, booleans become "true" or
// "false", and null becomes "".
//
//	[
//	  {"metric": "loss", "model": "7B", "step": 1, "value": 0.93},
//	  {"metric": "acc",  "model": "7B", "step": 1, "value": 0.41}
//	]
func ReadJSON(r io.Reader) (*Dataset, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "json: decode")
	}

	var columns []string
	known := make(map[string]bool)
	records := make([]map[string]string, 0, len(raw))
	for i, msg := range raw {
		keys, rec, err := decodeRecord(msg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "json: record %d", i)
		}
		for _, k := range keys {
			if !known[k] {
				known[k] = true
				columns = append(columns, k)
			}
		}
		records = append(records, rec)
	}

	d, err := New(columns...)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		values := make([]string, len(columns))
		for i, c := range columns {
			values[i] = rec[c]
		}
		if err := d.Append(values...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// decodeRecord reads one JSON object keeping its key order.
func decodeRecord(msg json.RawMessage) ([]string, map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	rec := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		switch val := v.(type) {
		case nil:
			rec[key] = ""
		case string:
			rec[key] = val
		case json.Number:
			rec[key] = val.String()
		case bool:
			rec[key] = fmt.Sprint(val)
		default:
			return nil, nil, fmt.Errorf("key %q: nested values are not supported", key)
		}
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys, rec, nil
}

// Load reads a dataset from path, choosing the decoder from the file
// extension (.csv, .tsv, .xlsx, .json).
//
// Load returns a FILE_NOT_FOUND error if path does not exist and an
// INVALID_FORMAT error for unsupported extensions.
func Load(path string) (*Dataset, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "dataset format", format,
		[]string{FormatCSV, FormatTSV, FormatXLSX, FormatJSON}); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "dataset %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	var d *Dataset
	switch format {
	case FormatCSV:
		d, err = ReadCSV(f, ',')
	case FormatTSV:
		d, err = ReadCSV(f, '\t')
	case FormatXLSX:
		d, err = ReadXLSX(f, "")
	case FormatJSON:
		d, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
