package grammaticus

// Candidate is one reading of a surface form: a stem and the slot whose
// ending accounts for the rest of the form.
type Candidate struct {
	Stem string
	Slot Slot
}

// Analysis holds every reading of a surface form within one class, in the
// class's slot declaration order. Several readings are the normal case
// ("puellae" is genitive and dative singular, nominative and vocative
// plural); an empty Analysis means the form was not recognized.
type Analysis []Candidate

// Recognized reports whether there is at least one reading.
func (a Analysis) Recognized() bool { return len(a) > 0 }

// Slots returns the slots of all readings.
func (a Analysis) Slots() []Slot {
	out := make([]Slot, 0, len(a))
	for _, c := range a {
		out = append(out, c.Slot)
	}
	return out
}

// Filter returns the readings whose slot satisfies keep.
func (a Analysis) Filter(keep SlotFilter) Analysis {
	var out Analysis
	for _, c := range a {
		if keep(c.Slot) {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first reading.
func (a Analysis) First() (Candidate, bool) {
	if len(a) == 0 {
		return Candidate{}, false
	}
	return a[0], true
}

// SlotFilter selects slots, e.g. "only plural readings".
type SlotFilter func(Slot) bool

// ByNumber keeps slots of number n.
func ByNumber(n Number) SlotFilter {
	return func(s Slot) bool { return s.SlotNumber() == n }
}

// ByCase keeps nominal slots of case c.
func ByCase(c Case) SlotFilter {
	return func(s Slot) bool {
		ns, ok := s.(NounSlot)
		return ok && ns.Case == c
	}
}

// ByTense keeps verbal slots of tense t.
func ByTense(t Tense) SlotFilter {
	return func(s Slot) bool {
		vs, ok := s.(VerbSlot)
		return ok && vs.Tense == t
	}
}

// ByVoice keeps verbal slots of voice v.
func ByVoice(v Voice) SlotFilter {
	return func(s Slot) bool {
		vs, ok := s.(VerbSlot)
		return ok && vs.Voice == v
	}
}

// ByPerson keeps verbal slots of person p.
func ByPerson(p Person) SlotFilter {
	return func(s Slot) bool {
		vs, ok := s.(VerbSlot)
		return ok && vs.Person == p
	}
}

// All combines filters; a slot must satisfy each one.
func All(filters ...SlotFilter) SlotFilter {
	return func(s Slot) bool {
		for _, f := range filters {
			if !f(s) {
				return false
			}
		}
		return true
	}
}

// Match is a reading found by Identify, tagged with its class. Exception
// is set when the reading came from an irregular registry entry.
type Match struct {
	Class Class
	Candidate
	Exception *ExceptionEntry
}
