package grammaticus

import (
	"fmt"
	"strings"
)

// PartOfSpeech represents the grammatical category of a paradigm.
type PartOfSpeech rune

const (
	POSNoun    PartOfSpeech = 'n'
	POSVerb    PartOfSpeech = 'v'
	POSUnknown PartOfSpeech = '-'
)

func (p PartOfSpeech) String() string {
	switch p {
	case POSNoun:
		return "noun"
	case POSVerb:
		return "verb"
	default:
		return "unknown"
	}
}

// Case is a nominal case. The zero value is not a valid case.
type Case uint8

const (
	Nominative Case = iota + 1
	Genitive
	Dative
	Accusative
	Ablative
	Vocative
)

// Cases lists the modeled cases in traditional order.
var Cases = []Case{Nominative, Genitive, Dative, Accusative, Ablative, Vocative}

var caseNames = map[Case]string{
	Nominative: "nominative",
	Genitive:   "genitive",
	Dative:     "dative",
	Accusative: "accusative",
	Ablative:   "ablative",
	Vocative:   "vocative",
}

func (c Case) String() string {
	if n, ok := caseNames[c]; ok {
		return n
	}
	return fmt.Sprintf("case(%d)", uint8(c))
}

// Number is grammatical number.
type Number uint8

const (
	Singular Number = iota + 1
	Plural
)

// Numbers lists singular then plural.
var Numbers = []Number{Singular, Plural}

func (n Number) String() string {
	switch n {
	case Singular:
		return "singular"
	case Plural:
		return "plural"
	default:
		return fmt.Sprintf("number(%d)", uint8(n))
	}
}

// Opposite returns plural for singular and vice versa.
func (n Number) Opposite() Number {
	if n == Singular {
		return Plural
	}
	return Singular
}

// Gender is grammatical gender. GenderNone marks lexemes without one (verbs).
type Gender uint8

const (
	GenderNone Gender = iota
	Masculine
	Feminine
	Neuter
)

func (g Gender) String() string {
	switch g {
	case Masculine:
		return "masculine"
	case Feminine:
		return "feminine"
	case Neuter:
		return "neuter"
	default:
		return "none"
	}
}

// ParseGender accepts full names and the one-letter codes used in the
// exception tables (m, f, n). An empty string yields GenderNone.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderNone, nil
	case "m", "masc", "masculine":
		return Masculine, nil
	case "f", "fem", "feminine":
		return Feminine, nil
	case "n", "neut", "neuter":
		return Neuter, nil
	}
	return GenderNone, fmt.Errorf("%w: unknown gender %q", ErrMalformedData, s)
}

// Person is grammatical person.
type Person uint8

const (
	First Person = iota + 1
	Second
	Third
)

// Persons lists first, second and third person.
var Persons = []Person{First, Second, Third}

func (p Person) String() string {
	switch p {
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	default:
		return fmt.Sprintf("person(%d)", uint8(p))
	}
}

// Tense is a verbal tense.
type Tense uint8

const (
	Present Tense = iota + 1
	Imperfect
	Future
	Perfect
	Pluperfect
	FuturePerfect
)

var tenseNames = map[Tense]string{
	Present:       "present",
	Imperfect:     "imperfect",
	Future:        "future",
	Perfect:       "perfect",
	Pluperfect:    "pluperfect",
	FuturePerfect: "future-perfect",
}

func (t Tense) String() string {
	if n, ok := tenseNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tense(%d)", uint8(t))
}

// Voice is active or passive.
type Voice uint8

const (
	Active Voice = iota + 1
	Passive
)

func (v Voice) String() string {
	switch v {
	case Active:
		return "active"
	case Passive:
		return "passive"
	default:
		return fmt.Sprintf("voice(%d)", uint8(v))
	}
}

// Mood is a verbal mood.
type Mood uint8

const (
	Indicative Mood = iota + 1
	Subjunctive
	Imperative
)

func (m Mood) String() string {
	switch m {
	case Indicative:
		return "indicative"
	case Subjunctive:
		return "subjunctive"
	case Imperative:
		return "imperative"
	default:
		return fmt.Sprintf("mood(%d)", uint8(m))
	}
}

// Realis reports whether m describes an actual event.
func (m Mood) Realis() bool { return m == Indicative }

// Aspect is the verbal aspect, derived from the tense.
type Aspect uint8

const (
	Continuous Aspect = iota + 1
	Simple
	Completed
)

func (a Aspect) String() string {
	switch a {
	case Continuous:
		return "continuous"
	case Simple:
		return "simple"
	case Completed:
		return "perfect"
	default:
		return fmt.Sprintf("aspect(%d)", uint8(a))
	}
}

// Slot identifies one cell of a paradigm. The set of implementations is
// closed: NounSlot and VerbSlot.
type Slot interface {
	// Code is the canonical "+"-joined feature code, e.g. "genitive+plural".
	Code() string
	// SlotNumber is the grammatical number of the cell.
	SlotNumber() Number
	String() string
	isSlot()
}

// NounSlot is a case/number cell of a declension.
type NounSlot struct {
	Case   Case
	Number Number
}

func (NounSlot) isSlot() {}

func (s NounSlot) Code() string { return s.Case.String() + "+" + s.Number.String() }

func (s NounSlot) SlotNumber() Number { return s.Number }

func (s NounSlot) String() string { return s.Case.String() + " " + s.Number.String() }

// VerbSlot is one cell of a conjugation.
type VerbSlot struct {
	Mood   Mood
	Tense  Tense
	Voice  Voice
	Person Person
	Number Number
}

func (VerbSlot) isSlot() {}

func (s VerbSlot) Code() string {
	return strings.Join([]string{
		s.Mood.String(), s.Tense.String(), s.Voice.String(), s.Person.String(), s.Number.String(),
	}, "+")
}

func (s VerbSlot) SlotNumber() Number { return s.Number }

func (s VerbSlot) String() string {
	return fmt.Sprintf("%s %s %s, %s person %s", s.Tense, s.Mood, s.Voice, s.Person, s.Number)
}

// Aspect derives the aspect of the slot from its tense.
func (s VerbSlot) Aspect() Aspect {
	switch s.Tense {
	case Present, Imperfect:
		return Continuous
	case Future:
		return Simple
	default:
		return Completed
	}
}

// features collects the values found while parsing a slot code.
type features struct {
	c Case
	n Number
	p Person
	t Tense
	v Voice
	m Mood
}

// featureTokens maps every accepted spelling of a feature to a setter.
var featureTokens = func() map[string]func(*features) {
	tok := make(map[string]func(*features))
	add := func(f func(*features), names ...string) {
		for _, n := range names {
			tok[n] = f
		}
	}
	add(func(f *features) { f.c = Nominative }, "nominative", "nom")
	add(func(f *features) { f.c = Genitive }, "genitive", "gen")
	add(func(f *features) { f.c = Dative }, "dative", "dat")
	add(func(f *features) { f.c = Accusative }, "accusative", "acc")
	add(func(f *features) { f.c = Ablative }, "ablative", "abl")
	add(func(f *features) { f.c = Vocative }, "vocative", "voc", "vo")
	add(func(f *features) { f.n = Singular }, "singular", "sg", "s")
	add(func(f *features) { f.n = Plural }, "plural", "pl", "p")
	add(func(f *features) { f.p = First }, "first", "1")
	add(func(f *features) { f.p = Second }, "second", "2")
	add(func(f *features) { f.p = Third }, "third", "3")
	add(func(f *features) { f.t = Present }, "present", "pres")
	add(func(f *features) { f.t = Imperfect }, "imperfect", "impf")
	add(func(f *features) { f.t = Future }, "future", "fut")
	add(func(f *features) { f.t = Perfect }, "perfect", "perf")
	add(func(f *features) { f.t = Pluperfect }, "pluperfect", "plup")
	add(func(f *features) { f.t = FuturePerfect }, "future-perfect", "futperf")
	add(func(f *features) { f.v = Active }, "active", "act")
	add(func(f *features) { f.v = Passive }, "passive", "pass")
	add(func(f *features) { f.m = Indicative }, "indicative", "ind")
	add(func(f *features) { f.m = Subjunctive }, "subjunctive", "subj")
	add(func(f *features) { f.m = Imperative }, "imperative", "imp")
	return tok
}()

// splitCode breaks a slot code into feature tokens. Besides the canonical
// "+" separator it accepts "." and spaces, the compact noun codes of the
// form "noms"/"genp", and person-number pairs such as "1sg".
func splitCode(code string) []string {
	code = strings.ToLower(strings.TrimSpace(code))
	fields := strings.FieldsFunc(code, func(r rune) bool {
		return r == '+' || r == '.' || r == ' '
	})
	var out []string
	for _, f := range fields {
		if _, ok := featureTokens[f]; ok {
			out = append(out, f)
			continue
		}
		// "noms", "vop": case abbreviation followed by a number letter
		if n := len(f); n >= 3 {
			head, tail := f[:n-1], f[n-1:]
			if _, ok := featureTokens[head]; ok && (tail == "s" || tail == "p") {
				out = append(out, head, tail)
				continue
			}
		}
		// "1sg", "3pl"
		if len(f) > 1 && f[0] >= '1' && f[0] <= '3' {
			if _, ok := featureTokens[f[1:]]; ok {
				out = append(out, f[:1], f[1:])
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// ParseSlot parses a slot code into a NounSlot or VerbSlot. Noun codes need
// a case and a number; verb codes need tense, voice, person and number, and
// default to the indicative when no mood is given.
func ParseSlot(code string) (Slot, error) {
	var f features
	tokens := splitCode(code)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty slot code", ErrUnknownSlot)
	}
	for _, t := range tokens {
		set, ok := featureTokens[t]
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q in %q", ErrUnknownSlot, t, code)
		}
		set(&f)
	}
	if f.n == 0 {
		return nil, fmt.Errorf("%w: no number in %q", ErrUnknownSlot, code)
	}
	if f.c != 0 {
		if f.p != 0 || f.t != 0 || f.v != 0 || f.m != 0 {
			return nil, fmt.Errorf("%w: mixed nominal and verbal features in %q", ErrUnknownSlot, code)
		}
		return NounSlot{Case: f.c, Number: f.n}, nil
	}
	if f.t == 0 || f.v == 0 || f.p == 0 {
		return nil, fmt.Errorf("%w: incomplete verbal slot %q", ErrUnknownSlot, code)
	}
	if f.m == 0 {
		f.m = Indicative
	}
	return VerbSlot{Mood: f.m, Tense: f.t, Voice: f.v, Person: f.p, Number: f.n}, nil
}

// parseColumn parses an exception-table column name: a slot code with the
// number left out. It returns a function completing the slot for a number.
func parseColumn(name string) (func(Number) Slot, error) {
	if _, err := ParseSlot(name); err == nil {
		return nil, fmt.Errorf("%w: column %q must not name a number", ErrMalformedData, name)
	}
	probe, err := ParseSlot(name + "+sg")
	if err != nil {
		return nil, err
	}
	switch s := probe.(type) {
	case NounSlot:
		return func(n Number) Slot { return NounSlot{Case: s.Case, Number: n} }, nil
	case VerbSlot:
		return func(n Number) Slot {
			v := s
			v.Number = n
			return v
		}, nil
	default:
		return nil, fmt.Errorf("%w: column %q", ErrUnknownSlot, name)
	}
}
