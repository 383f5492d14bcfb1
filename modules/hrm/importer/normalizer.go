package importer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

const DefaultMaxRows = 500

var (
	ErrTooManyRows = gerrors.New("too many rows in import batch")
	ErrEmptyBatch  = gerrors.New("import batch is empty")
	ErrNotAnArray  = gerrors.New("import body must be a json array of objects")
)

// Result is the output of normalization. RecognizedHeaders and
// IgnoredHeaders are accumulated across all rows; a header that was
// usable on one row and unusable on another appears in both.
type Result struct {
	Rows              []Row
	RecognizedHeaders []string
	IgnoredHeaders    []string
}

type Normalizer struct {
	maxRows int
}

func NewNormalizer(maxRows int) *Normalizer {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Normalizer{maxRows: maxRows}
}

// headerSet is an insertion-ordered string set.
type headerSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *headerSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

// processCell routes one source cell into the row. Empty values are
// skipped entirely: neither recognized nor ignored.
func processCell(row *Row, recognized, ignored *headerSet, header, rawValue string) {
	value := strings.TrimSpace(rawValue)
	if value == "" {
		return
	}

	key := normalizeHeader(header)
	if strings.HasPrefix(key, CustomFieldPrefix) {
		customKey := strings.TrimPrefix(key, CustomFieldPrefix)
		if customKey == "" {
			ignored.add(header)
			return
		}
		row.setCustom(customKey, value)
		recognized.add(header)
		return
	}

	field, ok := CanonicalField(key)
	if !ok {
		ignored.add(header)
		return
	}
	if !row.assign(field, value) {
		// Known alias but unusable value on this row (e.g. status text
		// that does not coerce). Classification is per field, not per
		// column, so the header lands in the ignored set here even if
		// another row recognized it.
		ignored.add(header)
		return
	}
	recognized.add(header)
}

// NormalizeCSV parses CSV text with a required header row. Ragged rows
// are tolerated; any other parse error aborts the whole normalization.
func (n *Normalizer) NormalizeCSV(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	stripUTF8BOM(br)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, gerrors.New("missing header row")
		}
		return nil, err
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
		if len(records) > n.maxRows {
			return nil, gerrors.Wrap(ErrTooManyRows, fmt.Sprintf("limit is %d", n.maxRows))
		}
	}

	return n.normalizeTable(header, records), nil
}

// NormalizeXLSX reads the first sheet of a workbook; the first row is
// the header.
func (n *Normalizer) NormalizeXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, gerrors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gerrors.New("missing header row")
	}
	if len(rows)-1 > n.maxRows {
		return nil, gerrors.Wrap(ErrTooManyRows, fmt.Sprintf("limit is %d", n.maxRows))
	}

	return n.normalizeTable(rows[0], rows[1:]), nil
}

func (n *Normalizer) normalizeTable(header []string, records [][]string) *Result {
	var recognized, ignored headerSet
	rows := make([]Row, 0, len(records))

	for _, rec := range records {
		var row Row
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			processCell(&row, &recognized, &ignored, name, rec[i])
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return &Result{
		Rows:              rows,
		RecognizedHeaders: recognized.order,
		IgnoredHeaders:    ignored.order,
	}
}

// NormalizeJSON accepts a JSON array of flat objects. Shape violations
// (not an array, empty, over the row cap) are contract violations and
// abort before any row is processed.
func (n *Normalizer) NormalizeJSON(data []byte) (*Result, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	items, ok := parsed.([]any)
	if !ok {
		return nil, ErrNotAnArray
	}
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(items) > n.maxRows {
		return nil, gerrors.Wrap(ErrTooManyRows, fmt.Sprintf("limit is %d", n.maxRows))
	}

	var recognized, ignored headerSet
	rows := make([]Row, 0, len(items))

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, gerrors.New(fmt.Sprintf("element %d is not an object", i))
		}
		var row Row
		for key, raw := range obj {
			if normalizeHeader(key) == "customfields" {
				if nested, ok := raw.(map[string]any); ok {
					for ck, cv := range nested {
						if v := strings.TrimSpace(scalarToString(cv)); v != "" {
							row.setCustom(ck, v)
							recognized.add(key)
						}
					}
				}
				continue
			}
			processCell(&row, &recognized, &ignored, key, scalarToString(raw))
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return &Result{
		Rows:              rows,
		RecognizedHeaders: recognized.order,
		IgnoredHeaders:    ignored.order,
	}, nil
}

// scalarToString renders JSON scalars the way a CSV cell would carry
// them; null and nested structures become empty and are skipped.
func scalarToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func stripUTF8BOM(r *bufio.Reader) {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}
