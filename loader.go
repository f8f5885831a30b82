package grammaticus

import (
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/paradigms.yaml data/exceptions.csv
var dataFS embed.FS

// paradigmFile is the YAML layout of data/paradigms.yaml.
type paradigmFile struct {
	Classes []paradigmDef `yaml:"classes"`
}

type paradigmDef struct {
	Class         string     `yaml:"class"`
	POS           string     `yaml:"pos"`
	Gender        string     `yaml:"gender"`
	LemmaSuffixes []string   `yaml:"lemma_suffixes"`
	StemRules     []StemRule `yaml:"stem_rules"`
	Rows          [][]string `yaml:"rows"`
}

// DefaultParadigms decodes the ending tables embedded in the package.
func DefaultParadigms() (*Paradigms, error) {
	f, err := dataFS.Open("data/paradigms.yaml")
	if err != nil {
		return nil, fmt.Errorf("open paradigms.yaml: %w", err)
	}
	defer f.Close()
	return LoadParadigms(f)
}

// LoadParadigms decodes a YAML ending-table document. Every row cell goes
// through ParseEndingCell and must give both numbers at least one ending.
func LoadParadigms(r io.Reader) (*Paradigms, error) {
	var doc paradigmFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode paradigms: %v", ErrMalformedData, err)
	}
	if len(doc.Classes) == 0 {
		return nil, fmt.Errorf("%w: no classes defined", ErrMalformedData)
	}

	ps := newParadigms()
	for _, def := range doc.Classes {
		p, err := def.build()
		if err != nil {
			return nil, err
		}
		if err := ps.add(p); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (def paradigmDef) build() (*Paradigm, error) {
	if def.Class == "" {
		return nil, fmt.Errorf("%w: class without a name", ErrMalformedData)
	}
	var pos PartOfSpeech
	switch def.POS {
	case "noun":
		pos = POSNoun
	case "verb":
		pos = POSVerb
	default:
		return nil, fmt.Errorf("%w: %s: unknown pos %q", ErrMalformedData, def.Class, def.POS)
	}
	p := newParadigm(Class(def.Class), pos)

	g, err := ParseGender(def.Gender)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Class, err)
	}
	p.Gender = g
	p.LemmaSuffixes = def.LemmaSuffixes

	for _, r := range def.StemRules {
		if (r.Word == "") == (r.Prefix == "") || r.Stem == "" {
			return nil, fmt.Errorf("%w: %s: stem rule needs one of word/prefix and a stem", ErrMalformedData, def.Class)
		}
		p.StemRules = append(p.StemRules, r)
	}

	for _, row := range def.Rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: %s: row %v is not [column, cell]", ErrMalformedData, def.Class, row)
		}
		slotFor, err := parseColumn(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Class, err)
		}
		branches, err := ParseEndingCell(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", def.Class, row[0], err)
		}
		if len(branches) != len(Numbers) {
			return nil, fmt.Errorf("%w: %s %s: need singular and plural endings", ErrMalformedData, def.Class, row[0])
		}
		if slices.ContainsFunc(slices.Concat(branches...), isWholeForm) {
			return nil, fmt.Errorf("%w: %s %s: whole forms belong in exception tables", ErrMalformedData, def.Class, row[0])
		}
		for i, n := range Numbers {
			s := slotFor(n)
			if !slotMatchesPOS(s, pos) {
				return nil, fmt.Errorf("%w: %s: %s does not fit a %s", ErrMalformedData, def.Class, s.Code(), pos)
			}
			if err := p.addSlot(s, branches[i]); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func slotMatchesPOS(s Slot, pos PartOfSpeech) bool {
	switch s.(type) {
	case NounSlot:
		return pos == POSNoun
	case VerbSlot:
		return pos == POSVerb
	}
	return false
}

// wholeForm marks an exception alternative that is a complete form rather
// than an ending: "=magister".
const wholeForm = "="

// ParseEndingCell splits a compact ending cell into one ending list per
// number. Branches are separated by ":" (singular first), alternatives
// inside a branch by ",". An empty branch yields a nil list, meaning the
// number is not covered; "-" stands for the empty ending and "=form" for a
// whole form, kept with its marker. An empty cell yields no branches at
// all.
func ParseEndingCell(raw string) ([][]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ":")
	if len(parts) > len(Numbers) {
		return nil, fmt.Errorf("%w: cell %q has %d number branches", ErrMalformedData, raw, len(parts))
	}
	out := make([][]string, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, alt := range strings.Split(part, ",") {
			alt = strings.TrimSpace(alt)
			switch alt {
			case "":
				return nil, fmt.Errorf("%w: cell %q has an empty alternative", ErrMalformedData, raw)
			case "-":
				alt = ""
			case wholeForm:
				return nil, fmt.Errorf("%w: cell %q has an empty whole form", ErrMalformedData, raw)
			}
			out[i] = append(out[i], alt)
		}
	}
	return out, nil
}

// ExceptionRecord is one row of an exception table as delivered by a data
// provider. Cells are kept raw; the registry parses them.
type ExceptionRecord struct {
	Stem string
	// AltStems is the ","-separated list of spelling variants.
	AltStems  string
	Gender    string
	Irregular bool
	// Class defaults to first-declension when empty.
	Class string
	// Endings maps a column name (slot code without number) to its cell.
	Endings map[string]string
}

// ExceptionSource supplies exception records.
type ExceptionSource interface {
	LoadExceptions(ctx context.Context) ([]ExceptionRecord, error)
}

// StaticSource serves records held in memory.
type StaticSource []ExceptionRecord

// LoadExceptions returns a copy of the records.
func (s StaticSource) LoadExceptions(ctx context.Context) ([]ExceptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]ExceptionRecord(nil), s...), nil
}

// Column names with a fixed meaning in exception tables. Any other column
// is an ending column.
const (
	ColStem      = "stem"
	ColAltStems  = "alt_stems"
	ColGender    = "gender"
	ColIrregular = "irregular"
	ColClass     = "class"
)

// IsMetaColumn reports whether name is one of the fixed exception columns.
func IsMetaColumn(name string) bool {
	switch name {
	case ColStem, ColAltStems, ColGender, ColIrregular, ColClass:
		return true
	}
	return false
}

// CSVSource reads a "|"-separated exception table with a header row.
// Lines starting with "!" are comments.
type CSVSource struct {
	name string
	open func() (io.ReadCloser, error)
}

// CSVFile returns a CSVSource reading the file at path.
func CSVFile(path string) *CSVSource {
	return &CSVSource{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// CSVFS returns a CSVSource reading name from fsys.
func CSVFS(fsys fs.FS, name string) *CSVSource {
	return &CSVSource{
		name: name,
		open: func() (io.ReadCloser, error) { return fsys.Open(name) },
	}
}

// DefaultExceptions returns the exception table embedded in the package.
func DefaultExceptions() *CSVSource {
	return CSVFS(dataFS, "data/exceptions.csv")
}

// LoadExceptions parses the whole table.
func (s *CSVSource) LoadExceptions(ctx context.Context) ([]ExceptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}
	defer f.Close()
	return ReadExceptionTable(f)
}

// ReadExceptionTable parses a "|"-separated exception table from r.
func ReadExceptionTable(r io.Reader) ([]ExceptionRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.Comment = '!'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedData, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if !slices.Contains(header, ColStem) {
		return nil, fmt.Errorf("%w: header has no %q column", ErrMalformedData, ColStem)
	}

	var out []ExceptionRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		line, _ := cr.FieldPos(0)
		values := make(map[string]string, len(header))
		for i, col := range header {
			values[col] = strings.TrimSpace(row[i])
		}
		rec, err := RecordFromColumns(values)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecordFromColumns builds a record from a column → value map. It is shared
// by every tabular provider.
func RecordFromColumns(values map[string]string) (ExceptionRecord, error) {
	rec := ExceptionRecord{
		Stem:     values[ColStem],
		AltStems: values[ColAltStems],
		Gender:   values[ColGender],
		Class:    values[ColClass],
		Endings:  make(map[string]string),
	}
	if v := values[ColIrregular]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return rec, fmt.Errorf("%w: irregular %q: %v", ErrMalformedData, v, err)
		}
		rec.Irregular = b
	}
	for col, v := range values {
		if IsMetaColumn(col) || v == "" {
			continue
		}
		rec.Endings[col] = v
	}
	return rec, nil
}
