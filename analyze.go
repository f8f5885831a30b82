package grammaticus

import (
	"fmt"
	"slices"
	"strings"
)

// Analyze returns every reading of form in class c using the regular
// table. The stem comes from ExtractStem; the remainder of the form is the
// ending, and every slot listing that ending is a reading. A form with no
// stem yields an empty Analysis and a nil error; only an unknown class is
// an error.
func (e *Engine) Analyze(c Class, form string) (Analysis, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	form = Normalize(form)
	stem, err := p.extractStem(form)
	if err != nil {
		return nil, nil
	}
	if !strings.HasPrefix(form, stem) {
		return nil, nil
	}
	return p.scan(stem, form, nil), nil
}

// AnalyzeWith analyzes form as a lexeme with exception data exc. For an
// irregular entry the override endings replace the regular ones and every
// stem of the entry is tried; a whole-form override must equal the form.
// A nil exc is the same as Analyze.
func (e *Engine) AnalyzeWith(c Class, form string, exc *ExceptionEntry) (Analysis, error) {
	if exc == nil || !exc.Irregular {
		return e.Analyze(c, form)
	}
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	if exc.Class != c {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrClassMismatch, exc.Stem, exc.Class, c)
	}
	return p.analyzeIrregular(Normalize(form), exc), nil
}

func (p *Paradigm) analyzeIrregular(form string, exc *ExceptionEntry) Analysis {
	var out Analysis
	for _, stem := range exc.Stems() {
		if Normalize(stem) == "" {
			continue
		}
		for _, c := range p.scan(stem, form, exc) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// scan collects the slots where stem and one of the effective endings
// produce form. A whole-form override is read as the entry's primary stem.
func (p *Paradigm) scan(stem, form string, exc *ExceptionEntry) Analysis {
	st := Normalize(stem)
	var out Analysis
	for _, s := range p.slots {
		endings, err := p.effectiveEndings(s, exc)
		if err != nil {
			continue
		}
		for _, end := range endings {
			if realize(st, end) != form {
				continue
			}
			c := Candidate{Stem: stem, Slot: s}
			if isWholeForm(end) {
				c.Stem = exc.Stem
			}
			out = append(out, c)
			break
		}
	}
	return out
}

// AnalyzeFirst returns the first reading of form in class c that keep
// accepts. Callers needing every reading use Analyze.
func (e *Engine) AnalyzeFirst(c Class, form string, keep SlotFilter) (Candidate, bool, error) {
	a, err := e.Analyze(c, form)
	if err != nil {
		return Candidate{}, false, err
	}
	cand, ok := a.Filter(keep).First()
	return cand, ok, nil
}

// Renumber converts form of class c to number target. With a case, that
// case is produced in target; without one, the first reading of form in
// the opposite number decides the case (or person, tense and voice for
// verbs). A stem listed in the registry uses its exception data
// ("magistri" → "magister").
func (e *Engine) Renumber(c Class, form string, target Number, cs *Case) (string, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return "", err
	}
	form = Normalize(form)
	stem, err := p.extractStem(form)
	if err != nil {
		return "", err
	}
	resolved, exc, ok := e.exceptions.Resolve(c, stem)
	if ok && exc.hasStem(stem) {
		stem = resolved
	} else {
		exc = nil
	}
	if cs != nil {
		return p.inflect(stem, NounSlot{Case: *cs, Number: target}, exc)
	}
	a, err := e.AnalyzeWith(c, form, exc)
	if err != nil {
		return "", err
	}
	cand, ok := a.Filter(ByNumber(target.Opposite())).First()
	if !ok {
		return "", fmt.Errorf("%w: %q has no %s reading in %s", ErrNoStemFound, form, target.Opposite(), c)
	}
	return p.inflect(cand.Stem, withNumber(cand.Slot, target), exc)
}

// ToSingular is Renumber towards the singular.
func (e *Engine) ToSingular(c Class, form string, cs *Case) (string, error) {
	return e.Renumber(c, form, Singular, cs)
}

// ToPlural is Renumber towards the plural.
func (e *Engine) ToPlural(c Class, form string, cs *Case) (string, error) {
	return e.Renumber(c, form, Plural, cs)
}

func withNumber(s Slot, n Number) Slot {
	switch v := s.(type) {
	case NounSlot:
		v.Number = n
		return v
	case VerbSlot:
		v.Number = n
		return v
	}
	return s
}

// Recognizes reports whether form could belong to class c: it ends in a
// regular ending or matches a stem rule, or an irregular entry of that
// class produces it.
func (e *Engine) Recognizes(c Class, form string) bool {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return false
	}
	form = Normalize(form)
	if _, err := p.extractStem(form); err == nil {
		return true
	}
	for _, exc := range e.exceptions.Entries() {
		if exc.Class != c || !exc.Irregular {
			continue
		}
		if len(p.analyzeIrregular(form, exc)) > 0 {
			return true
		}
	}
	return false
}

// Identify analyzes form in every class, in class definition order. See
// Readings for what one class contributes.
func (e *Engine) Identify(form string) []Match {
	form = Normalize(form)
	var out []Match
	for _, c := range e.paradigms.classes {
		out = e.readings(e.paradigms.byClass[c], form, out)
	}
	return out
}

// Readings returns every reading of form in class c, irregular lexemes
// included. The regular reading is used unless the extracted stem is a
// stem of an irregular registry entry, and every irregular entry whose stem
// starts the form contributes its own readings.
func (e *Engine) Readings(c Class, form string) ([]Match, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	return e.readings(p, Normalize(form), nil), nil
}

// readings appends the readings of a normalized form in p to out.
func (e *Engine) readings(p *Paradigm, form string, out []Match) []Match {
	add := func(a Analysis, exc *ExceptionEntry) {
		for _, cand := range a {
			m := Match{Class: p.Class, Candidate: cand, Exception: exc}
			if !slices.ContainsFunc(out, func(x Match) bool {
				return x.Class == m.Class && x.Stem == m.Stem && x.Slot == m.Slot
			}) {
				out = append(out, m)
			}
		}
	}

	if stem, err := p.extractStem(form); err == nil && strings.HasPrefix(form, stem) {
		exc, ok := e.exceptions.LookupClass(p.Class, stem)
		switch {
		case ok && exc.Irregular && exc.hasStem(stem):
			// Read through the entry's own endings below.
		case ok && exc.Irregular:
			// A containment hit on another lexeme's alternate stem.
			add(p.scan(stem, form, nil), nil)
		default:
			add(p.scan(stem, form, nil), exc.Clone())
		}
	}
	for _, exc := range e.exceptions.Entries() {
		if exc.Class != p.Class || !exc.Irregular {
			continue
		}
		add(p.analyzeIrregular(form, exc), exc.Clone())
	}
	return out
}
