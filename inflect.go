package grammaticus

import (
	"fmt"
	"strings"
)

// Form is one generated cell of a paradigm.
type Form struct {
	Slot Slot
	Text string
}

// Inflect produces the surface form of stem in slot s of class c. The stem
// is normalized first, so forms are always lowercase and unmarked.
//
// When exc is irregular and overrides s, the first listed override ending
// is used; otherwise the canonical regular ending. A nil exc means a
// regular lexeme.
func (e *Engine) Inflect(stem string, c Class, s Slot, exc *ExceptionEntry) (string, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return "", err
	}
	return p.inflect(Normalize(stem), s, exc)
}

func (p *Paradigm) inflect(stem string, s Slot, exc *ExceptionEntry) (string, error) {
	endings, err := p.effectiveEndings(s, exc)
	if err != nil {
		return "", err
	}
	return realize(stem, endings[0]), nil
}

// realize attaches ending to stem, or returns the whole form it names.
func realize(stem, ending string) string {
	if form, ok := strings.CutPrefix(ending, wholeForm); ok {
		return Normalize(form)
	}
	return stem + ending
}

func isWholeForm(ending string) bool {
	return strings.HasPrefix(ending, wholeForm)
}

// effectiveEndings returns the endings of s for a lexeme with exception
// data exc: its override when it has one, the regular endings otherwise.
func (p *Paradigm) effectiveEndings(s Slot, exc *ExceptionEntry) ([]string, error) {
	if err := p.checkSlot(s); err != nil {
		return nil, err
	}
	if exc != nil && exc.Class != p.Class {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrClassMismatch, exc.Stem, exc.Class, p.Class)
	}
	if over, ok := exc.Override(s); ok {
		return over, nil
	}
	return p.endings[s], nil
}

// checkSlot rejects slots of the wrong kind or not declared by the class.
func (p *Paradigm) checkSlot(s Slot) error {
	switch v := s.(type) {
	case NounSlot:
		if p.POS != POSNoun {
			return fmt.Errorf("%w: nominal slot %s for %s", ErrUnknownSlot, v.Code(), p.Class)
		}
	case VerbSlot:
		if p.POS != POSVerb {
			return fmt.Errorf("%w: verbal slot %s for %s", ErrUnknownSlot, v.Code(), p.Class)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownSlot, s)
	}
	if !p.Declares(s) {
		return fmt.Errorf("%w: %s is not declared by %s", ErrUnknownSlot, s.Code(), p.Class)
	}
	return nil
}

// InflectCode is Inflect with the slot given as a code such as
// "nominative+singular", "gen+pl", "noms" or "3sg+pres+act".
func (e *Engine) InflectCode(stem string, c Class, code string, exc *ExceptionEntry) (string, error) {
	s, err := ParseSlot(code)
	if err != nil {
		return "", err
	}
	return e.Inflect(stem, c, s, exc)
}

// Variants returns every attested form of stem in slot s, canonical first.
func (e *Engine) Variants(stem string, c Class, s Slot, exc *ExceptionEntry) ([]string, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	endings, err := p.effectiveEndings(s, exc)
	if err != nil {
		return nil, err
	}
	stem = Normalize(stem)
	forms := make([]string, 0, len(endings))
	for _, end := range endings {
		forms = append(forms, realize(stem, end))
	}
	return unique(forms), nil
}

// Decline generates the canonical form of every declared slot of class c,
// in declaration order. It serves conjugation classes as well.
func (e *Engine) Decline(stem string, c Class, exc *ExceptionEntry) ([]Form, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	stem = Normalize(stem)
	forms := make([]Form, 0, len(p.slots))
	for _, s := range p.slots {
		text, err := p.inflect(stem, s, exc)
		if err != nil {
			return nil, err
		}
		forms = append(forms, Form{Slot: s, Text: text})
	}
	return forms, nil
}

// Table arranges nominal forms by case and number, e.g.
// t[Genitive][Plural] == "aguarum". Verbal forms are skipped.
type Table map[Case]map[Number]string

// NounTable builds a Table from generated forms.
func NounTable(forms []Form) Table {
	t := make(Table)
	for _, f := range forms {
		ns, ok := f.Slot.(NounSlot)
		if !ok {
			continue
		}
		if t[ns.Case] == nil {
			t[ns.Case] = make(map[Number]string, len(Numbers))
		}
		t[ns.Case][ns.Number] = f.Text
	}
	return t
}

// unique returns a deduplicated slice preserving order.
func unique(ss []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
