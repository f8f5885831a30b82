package grammaticus

import (
	"fmt"
	"sort"
	"strings"
)

// Class names an inflection class and the ending table that governs it.
type Class string

const (
	FirstDeclension        Class = "first-declension"
	SecondDeclension       Class = "second-declension"
	SecondDeclensionNeuter Class = "second-declension-neuter"
	FirstConjugation       Class = "first-conjugation"
)

// StemRule is a class-specific irregular stem. Exactly one of Word (whole
// form equality) or Prefix (literal prefix) is set; a match yields Stem.
type StemRule struct {
	Word   string `yaml:"word"`
	Prefix string `yaml:"prefix"`
	Stem   string `yaml:"stem"`
}

func (r StemRule) match(form string) (string, bool) {
	switch {
	case r.Word != "":
		return r.Stem, form == r.Word
	case r.Prefix != "":
		return r.Stem, strings.HasPrefix(form, r.Prefix)
	}
	return "", false
}

// Paradigm is the regular ending table of one inflection class.
// It is immutable once built.
type Paradigm struct {
	// Class identifies the table.
	Class Class
	// POS is POSNoun for declensions and POSVerb for conjugations.
	POS PartOfSpeech
	// Gender is the default gender of nouns of this class.
	Gender Gender
	// LemmaSuffixes are removed from a dictionary lemma to get the stem.
	LemmaSuffixes []string
	// StemRules are consulted before suffix stripping.
	StemRules []StemRule

	// slots lists the declared slots in declaration order.
	slots []Slot
	// endings maps slot → candidate endings, canonical first.
	endings map[Slot][]string
	// all holds every distinct ending in declaration order.
	all []string
	// byLength is all sorted longest first, ties kept in declaration order.
	byLength []string
}

func newParadigm(class Class, pos PartOfSpeech) *Paradigm {
	return &Paradigm{
		Class:   class,
		POS:     pos,
		endings: make(map[Slot][]string),
	}
}

// addSlot declares slot with its endings. Declaring a slot twice is an error.
func (p *Paradigm) addSlot(s Slot, endings []string) error {
	if _, dup := p.endings[s]; dup {
		return fmt.Errorf("%w: %s declares %s twice", ErrMalformedData, p.Class, s.Code())
	}
	if len(endings) == 0 {
		return fmt.Errorf("%w: %s has no ending for %s", ErrMalformedData, p.Class, s.Code())
	}
	p.slots = append(p.slots, s)
	p.endings[s] = append([]string(nil), endings...)
	return nil
}

// seal checks totality and builds the flattened ending lists.
func (p *Paradigm) seal() error {
	if err := p.checkTotal(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, s := range p.slots {
		for _, e := range p.endings[s] {
			if !seen[e] {
				seen[e] = true
				p.all = append(p.all, e)
			}
		}
	}
	p.byLength = append([]string(nil), p.all...)
	sort.SliceStable(p.byLength, func(i, j int) bool {
		return len(p.byLength[i]) > len(p.byLength[j])
	})
	return nil
}

// checkTotal verifies that a declension covers every case in both numbers
// and that a conjugation covers every person and number of each
// mood/tense/voice it mentions.
func (p *Paradigm) checkTotal() error {
	switch p.POS {
	case POSNoun:
		for _, c := range Cases {
			for _, n := range Numbers {
				if _, ok := p.endings[NounSlot{Case: c, Number: n}]; !ok {
					return fmt.Errorf("%w: %s is missing %s %s", ErrMalformedData, p.Class, c, n)
				}
			}
		}
	case POSVerb:
		for _, s := range p.slots {
			v := s.(VerbSlot)
			for _, per := range Persons {
				for _, n := range Numbers {
					want := VerbSlot{Mood: v.Mood, Tense: v.Tense, Voice: v.Voice, Person: per, Number: n}
					if _, ok := p.endings[want]; !ok {
						return fmt.Errorf("%w: %s is missing %s", ErrMalformedData, p.Class, want.Code())
					}
				}
			}
		}
	default:
		return fmt.Errorf("%w: %s has unknown part of speech", ErrMalformedData, p.Class)
	}
	return nil
}

// Slots returns the declared slots in declaration order.
func (p *Paradigm) Slots() []Slot {
	return append([]Slot(nil), p.slots...)
}

// Declares reports whether s is one of the class's slots.
func (p *Paradigm) Declares(s Slot) bool {
	_, ok := p.endings[s]
	return ok
}

// EndingsFor returns the candidate endings of slot s, canonical first.
func (p *Paradigm) EndingsFor(s Slot) ([]string, error) {
	e, ok := p.endings[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v is not declared by %s", ErrUnknownSlot, s, p.Class)
	}
	return append([]string(nil), e...), nil
}

// canonical returns the first ending of a declared slot.
func (p *Paradigm) canonical(s Slot) (string, error) {
	e, ok := p.endings[s]
	if !ok {
		return "", fmt.Errorf("%w: %v is not declared by %s", ErrUnknownSlot, s, p.Class)
	}
	return e[0], nil
}

// AllEndings returns every distinct ending of the class in declaration order.
func (p *Paradigm) AllEndings() []string {
	return append([]string(nil), p.all...)
}

// Paradigms is the process-wide set of ending tables.
type Paradigms struct {
	classes []Class
	byClass map[Class]*Paradigm
}

func newParadigms() *Paradigms {
	return &Paradigms{byClass: make(map[Class]*Paradigm)}
}

func (ps *Paradigms) add(p *Paradigm) error {
	if _, dup := ps.byClass[p.Class]; dup {
		return fmt.Errorf("%w: class %s defined twice", ErrMalformedData, p.Class)
	}
	if err := p.seal(); err != nil {
		return err
	}
	ps.classes = append(ps.classes, p.Class)
	ps.byClass[p.Class] = p
	return nil
}

// Get returns the paradigm of class c.
func (ps *Paradigms) Get(c Class) (*Paradigm, error) {
	p, ok := ps.byClass[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, c)
	}
	return p, nil
}

// Classes returns the loaded classes in definition order.
func (ps *Paradigms) Classes() []Class {
	return append([]Class(nil), ps.classes...)
}

// EndingsFor returns the endings of slot s in class c.
func (ps *Paradigms) EndingsFor(c Class, s Slot) ([]string, error) {
	p, err := ps.Get(c)
	if err != nil {
		return nil, err
	}
	return p.EndingsFor(s)
}

// AllEndings returns every distinct ending of class c.
func (ps *Paradigms) AllEndings(c Class) ([]string, error) {
	p, err := ps.Get(c)
	if err != nil {
		return nil, err
	}
	return p.AllEndings(), nil
}
