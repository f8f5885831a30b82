package grammaticus

import "fmt"

// Lexeme is a word bound to its inflection class. Noun and Verb are the
// implementations; the class decides which one NewLexeme builds.
type Lexeme interface {
	// Stem is the invariant part the endings attach to.
	Stem() string
	Class() Class
	POS() PartOfSpeech
	// Gender is reported for nouns only.
	Gender() (Gender, bool)
	Inflect(s Slot) (string, error)
	InflectCode(code string) (string, error)
	// Paradigm returns every declared slot's form in declaration order.
	Paradigm() ([]Form, error)
	// Analyze returns the readings of form as this lexeme.
	Analyze(form string) (Analysis, error)
	// Exception returns the lexeme's own exception data, or nil.
	Exception() *ExceptionEntry
}

// lexeme carries what nouns and verbs share. The exception entry is
// resolved once, at construction, and copied so that the lexeme owns it.
// A stem listed as an alternate stem is replaced by the entry's primary
// stem, so "magister" builds on "magistr".
type lexeme struct {
	engine    *Engine
	paradigm  *Paradigm
	stem      string
	exception *ExceptionEntry
}

func (e *Engine) newLexeme(stem string, p *Paradigm) lexeme {
	stem, exc, _ := e.exceptions.Resolve(p.Class, stem)
	return lexeme{engine: e, paradigm: p, stem: stem, exception: exc.Clone()}
}

func (l *lexeme) Stem() string { return l.stem }

func (l *lexeme) Class() Class { return l.paradigm.Class }

func (l *lexeme) POS() PartOfSpeech { return l.paradigm.POS }

func (l *lexeme) Exception() *ExceptionEntry { return l.exception }

// Irregular reports whether the lexeme overrides regular endings.
func (l *lexeme) Irregular() bool { return l.exception != nil && l.exception.Irregular }

func (l *lexeme) Inflect(s Slot) (string, error) {
	return l.paradigm.inflect(l.stem, s, l.exception)
}

func (l *lexeme) InflectCode(code string) (string, error) {
	s, err := ParseSlot(code)
	if err != nil {
		return "", err
	}
	return l.Inflect(s)
}

func (l *lexeme) Paradigm() ([]Form, error) {
	return l.engine.Decline(l.stem, l.paradigm.Class, l.exception)
}

func (l *lexeme) Analyze(form string) (Analysis, error) {
	a, err := l.engine.AnalyzeWith(l.paradigm.Class, form, l.exception)
	if err != nil {
		return nil, err
	}
	// Readings of other stems do not belong to this lexeme.
	return a.forStems(l.stems()), nil
}

func (l *lexeme) stems() []string {
	if l.exception != nil {
		return l.exception.Stems()
	}
	return []string{l.stem}
}

func (a Analysis) forStems(stems []string) Analysis {
	var out Analysis
	for _, c := range a {
		for _, s := range stems {
			if Normalize(s) == Normalize(c.Stem) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Noun is a lexeme of a declension class.
type Noun struct {
	lexeme
	gender Gender
}

// NewNoun builds a noun from its stem, normalized. Gender and exception data
// come from the registry when the stem is listed there, from the class
// otherwise.
func (e *Engine) NewNoun(stem string, c Class) (*Noun, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	if p.POS != POSNoun {
		return nil, fmt.Errorf("%w: %s is not a declension", ErrUnknownClass, c)
	}
	stem = Normalize(stem)
	if stem == "" {
		return nil, fmt.Errorf("%w: empty stem", ErrNoStemFound)
	}
	n := &Noun{lexeme: e.newLexeme(stem, p), gender: p.Gender}
	if n.exception != nil {
		n.gender = n.exception.Gender
	}
	return n, nil
}

// ParseNoun builds a noun of class c from any inflected form of it.
func (e *Engine) ParseNoun(form string, c Class) (*Noun, error) {
	stem, err := e.ExtractStem(c, form)
	if err != nil {
		return nil, err
	}
	return e.NewNoun(stem, c)
}

// Gender returns the noun's gender.
func (n *Noun) Gender() (Gender, bool) { return n.gender, n.gender != GenderNone }

// Table returns the paradigm arranged by case and number.
func (n *Noun) Table() (Table, error) {
	forms, err := n.Paradigm()
	if err != nil {
		return nil, err
	}
	return NounTable(forms), nil
}

func (n *Noun) String() string {
	return fmt.Sprintf("%s [%s:%s]", n.stem, n.gender, n.paradigm.Class)
}

// Verb is a lexeme of a conjugation class.
type Verb struct {
	lexeme
	lemma string
}

// NewVerb builds a verb from its dictionary lemma (first person singular
// present indicative, e.g. "amo").
func (e *Engine) NewVerb(lemma string, c Class) (*Verb, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	if p.POS != POSVerb {
		return nil, fmt.Errorf("%w: %s is not a conjugation", ErrUnknownClass, c)
	}
	stem, err := e.LemmaStem(c, lemma)
	if err != nil {
		return nil, err
	}
	return &Verb{lexeme: e.newLexeme(stem, p), lemma: Normalize(lemma)}, nil
}

// Lemma returns the dictionary form the verb was built from.
func (v *Verb) Lemma() string { return v.lemma }

// Gender is never set for verbs.
func (v *Verb) Gender() (Gender, bool) { return GenderNone, false }

// Conjugation returns the forms of one tense and voice in the indicative,
// ordered first to third person, singular before plural.
func (v *Verb) Conjugation(t Tense, voice Voice) ([]Form, error) {
	var out []Form
	for _, n := range Numbers {
		for _, p := range Persons {
			s := VerbSlot{Mood: Indicative, Tense: t, Voice: voice, Person: p, Number: n}
			text, err := v.Inflect(s)
			if err != nil {
				return nil, err
			}
			out = append(out, Form{Slot: s, Text: text})
		}
	}
	return out, nil
}

func (v *Verb) String() string {
	return fmt.Sprintf("%s [%s]", v.lemma, v.paradigm.Class)
}

// NewLexeme builds a Noun for declension classes (word is the stem) or a
// Verb for conjugation classes (word is the lemma).
func (e *Engine) NewLexeme(word string, c Class) (Lexeme, error) {
	p, err := e.paradigms.Get(c)
	if err != nil {
		return nil, err
	}
	switch p.POS {
	case POSNoun:
		n, err := e.NewNoun(word, c)
		if err != nil {
			return nil, err
		}
		return n, nil
	case POSVerb:
		v, err := e.NewVerb(word, c)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownClass, c)
}
