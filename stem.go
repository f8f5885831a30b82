package grammaticus

import (
	"fmt"
	"strings"
)

// ExtractStem recovers the stem of a surface form of class c.
//
// The class stem rules are tried first and short-circuit. Otherwise the
// longest ending that is a suffix of the form is removed; among endings of
// equal length the one declared first wins. The empty ending never matches.
// When the longest match is the whole form ("orum", "arum") there is no
// stem and shorter endings are not tried. ErrNoStemFound is returned when
// nothing applies.
func (e *Engine) ExtractStem(c Class, form string) (string, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return "", err
	}
	return p.extractStem(Normalize(form))
}

// extractStem expects a normalized form.
func (p *Paradigm) extractStem(form string) (string, error) {
	if stem, ok := p.irregularStem(form); ok {
		return stem, nil
	}
	if stem, _, ok := p.stripLongest(form); ok {
		return stem, nil
	}
	return "", fmt.Errorf("%w: %q in %s", ErrNoStemFound, form, p.Class)
}

// irregularStem applies the class stem rules in declaration order.
func (p *Paradigm) irregularStem(form string) (string, bool) {
	for _, r := range p.StemRules {
		if stem, ok := r.match(form); ok {
			return stem, true
		}
	}
	return "", false
}

// stripLongest removes the longest matching ending and returns the stem
// and the ending removed. It fails when that ending is the whole form.
func (p *Paradigm) stripLongest(form string) (stem, ending string, ok bool) {
	for _, end := range p.byLength {
		if end == "" || !strings.HasSuffix(form, end) {
			continue
		}
		if len(end) == len(form) {
			return "", "", false
		}
		return form[:len(form)-len(end)], end, true
	}
	return "", "", false
}

// LemmaStem derives the stem of a dictionary lemma of class c by removing
// the longest matching lemma suffix (amo → am). Classes without lemma
// suffixes, such as declensions, fall back to ExtractStem.
func (e *Engine) LemmaStem(c Class, lemma string) (string, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return "", err
	}
	lemma = Normalize(lemma)
	if len(p.LemmaSuffixes) == 0 {
		return p.extractStem(lemma)
	}
	best := ""
	for _, suf := range p.LemmaSuffixes {
		if len(suf) > len(best) && len(suf) < len(lemma) && strings.HasSuffix(lemma, suf) {
			best = suf
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: lemma %q does not end in %s", ErrNoStemFound, lemma, strings.Join(p.LemmaSuffixes, "/"))
	}
	return lemma[:len(lemma)-len(best)], nil
}
