package grammaticus

import (
	"fmt"
	"slices"
	"strings"
)

// AltStemMatch selects how alternate stems are matched by the registry.
type AltStemMatch int

const (
	// AltStemExact matches a candidate equal to one alternate stem.
	AltStemExact AltStemMatch = iota
	// AltStemContains matches a candidate occurring anywhere inside an
	// alternate stem. It reproduces the behaviour of older exception tables
	// and can match unrelated entries ("iv" matches "dive").
	AltStemContains
)

func (m AltStemMatch) String() string {
	if m == AltStemContains {
		return "contains"
	}
	return "exact"
}

// ParseAltStemMatch parses "exact" or "contains".
func ParseAltStemMatch(s string) (AltStemMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return AltStemExact, nil
	case "contains":
		return AltStemContains, nil
	}
	return AltStemExact, fmt.Errorf("unknown alt stem match mode %q", s)
}

// ExceptionEntry describes a lexeme whose gender or endings differ from its
// class. Overrides only hold the slots that differ; any other slot falls
// back to the regular table. An override starting with "=" is a whole form
// rather than an ending ("magistr" has nominative "=magister").
type ExceptionEntry struct {
	Stem      string
	AltStems  []string
	Class     Class
	Gender    Gender
	Irregular bool
	Overrides map[Slot][]string
}

// Override returns the override endings of slot s, if any. Entries not
// marked irregular never override.
func (e *ExceptionEntry) Override(s Slot) ([]string, bool) {
	if e == nil || !e.Irregular {
		return nil, false
	}
	endings, ok := e.Overrides[s]
	if !ok || len(endings) == 0 {
		return nil, false
	}
	return endings, true
}

// Stems returns the primary stem followed by the alternate stems.
func (e *ExceptionEntry) Stems() []string {
	return append([]string{e.Stem}, e.AltStems...)
}

// Clone returns a deep copy, so a lexeme can own its exception data.
func (e *ExceptionEntry) Clone() *ExceptionEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.AltStems = append([]string(nil), e.AltStems...)
	c.Overrides = make(map[Slot][]string, len(e.Overrides))
	for s, endings := range e.Overrides {
		c.Overrides[s] = append([]string(nil), endings...)
	}
	return &c
}

// Registry indexes exception entries by folded primary and alternate stems.
// It is read-only once built and safe for concurrent use.
type Registry struct {
	match   AltStemMatch
	entries []*ExceptionEntry
	// byStem maps Fold(stem) → entries, in load order.
	byStem map[string][]*ExceptionEntry
	// byAlt maps Fold(alt stem) → entries, in load order.
	byAlt map[string][]*ExceptionEntry
	// skipped holds later entries repeating the class and stem of an
	// earlier one.
	skipped []*ExceptionEntry
}

func newRegistry(match AltStemMatch) *Registry {
	return &Registry{
		match:  match,
		byStem: make(map[string][]*ExceptionEntry),
		byAlt:  make(map[string][]*ExceptionEntry),
	}
}

// BuildRegistry parses records against the paradigm tables. Any malformed
// cell, unknown class or undeclared slot fails the whole build. A record
// repeating the class and stem of an earlier one is skipped; see Skipped.
func BuildRegistry(ps *Paradigms, records []ExceptionRecord, match AltStemMatch) (*Registry, error) {
	r := newRegistry(match)
	for i, rec := range records {
		e, err := newExceptionEntry(ps, rec)
		if err != nil {
			return nil, fmt.Errorf("exception %d (%q): %w", i+1, rec.Stem, err)
		}
		if slices.ContainsFunc(r.byStem[Fold(e.Stem)], func(x *ExceptionEntry) bool { return x.Class == e.Class }) {
			r.skipped = append(r.skipped, e)
			continue
		}
		r.add(e)
	}
	return r, nil
}

// Skipped returns the duplicate entries left out of the registry.
func (r *Registry) Skipped() []*ExceptionEntry {
	if r == nil {
		return nil
	}
	return append([]*ExceptionEntry(nil), r.skipped...)
}

func newExceptionEntry(ps *Paradigms, rec ExceptionRecord) (*ExceptionEntry, error) {
	stem := strings.TrimSpace(rec.Stem)
	if stem == "" {
		return nil, fmt.Errorf("%w: empty stem", ErrMalformedData)
	}
	class := Class(strings.TrimSpace(rec.Class))
	if class == "" {
		class = FirstDeclension
	}
	p, err := ps.Get(class)
	if err != nil {
		return nil, err
	}
	g, err := ParseGender(rec.Gender)
	if err != nil {
		return nil, err
	}
	if g == GenderNone {
		g = p.Gender
	}

	e := &ExceptionEntry{
		Stem:      stem,
		Class:     class,
		Gender:    g,
		Irregular: rec.Irregular,
		Overrides: make(map[Slot][]string),
	}
	for _, alt := range strings.Split(rec.AltStems, ",") {
		if alt = strings.TrimSpace(alt); alt != "" {
			e.AltStems = append(e.AltStems, alt)
		}
	}

	for col, cell := range rec.Endings {
		slotFor, err := parseColumn(col)
		if err != nil {
			return nil, err
		}
		branches, err := ParseEndingCell(cell)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		for i, endings := range branches {
			if endings == nil {
				continue
			}
			s := slotFor(Numbers[i])
			if !p.Declares(s) {
				return nil, fmt.Errorf("%w: %s is not declared by %s", ErrUnknownSlot, s.Code(), class)
			}
			e.Overrides[s] = endings
		}
	}
	return e, nil
}

func (r *Registry) add(e *ExceptionEntry) {
	r.entries = append(r.entries, e)
	key := Fold(e.Stem)
	r.byStem[key] = append(r.byStem[key], e)
	for _, alt := range e.AltStems {
		k := Fold(alt)
		r.byAlt[k] = append(r.byAlt[k], e)
	}
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns all entries in load order.
func (r *Registry) Entries() []*ExceptionEntry {
	if r == nil {
		return nil
	}
	return append([]*ExceptionEntry(nil), r.entries...)
}

// Lookup finds the first entry whose primary stem, or failing that whose
// alternate stem, matches stem. A miss returns (nil, false).
func (r *Registry) Lookup(stem string) (*ExceptionEntry, bool) {
	found := r.find(stem)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// LookupClass is Lookup restricted to entries of class c.
func (r *Registry) LookupClass(c Class, stem string) (*ExceptionEntry, bool) {
	for _, e := range r.find(stem) {
		if e.Class == c {
			return e, true
		}
	}
	return nil, false
}

// Resolve looks stem up in class c and returns the stem a lexeme should be
// built on. A stem found as an alternate of an entry resolves to the entry's
// primary stem ("magister" → "magistr"); any other hit keeps stem as given.
func (r *Registry) Resolve(c Class, stem string) (string, *ExceptionEntry, bool) {
	e, ok := r.LookupClass(c, stem)
	if !ok {
		return stem, nil, false
	}
	if e.isAltStem(stem) {
		return e.Stem, e, true
	}
	return stem, e, true
}

// hasStem reports whether stem folds equal to the primary or an alternate
// stem of e.
func (e *ExceptionEntry) hasStem(stem string) bool {
	key := Fold(stem)
	return slices.ContainsFunc(e.Stems(), func(s string) bool { return Fold(s) == key })
}

func (e *ExceptionEntry) isAltStem(stem string) bool {
	key := Fold(stem)
	return key != Fold(e.Stem) && slices.ContainsFunc(e.AltStems, func(s string) bool { return Fold(s) == key })
}

// find returns primary-stem matches first, then alternate-stem matches.
func (r *Registry) find(stem string) []*ExceptionEntry {
	if r == nil {
		return nil
	}
	key := Fold(stem)
	if key == "" {
		return nil
	}
	out := append([]*ExceptionEntry(nil), r.byStem[key]...)
	switch r.match {
	case AltStemContains:
		for _, e := range r.entries {
			for _, alt := range e.AltStems {
				if strings.Contains(Fold(alt), key) && !slices.Contains(out, e) {
					out = append(out, e)
					break
				}
			}
		}
	default:
		for _, e := range r.byAlt[key] {
			if !slices.Contains(out, e) {
				out = append(out, e)
			}
		}
	}
	return out
}
