package grammaticus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		class Class
		form  string
		want  []Slot
	}{
		{FirstDeclension, "puellae", []Slot{
			NounSlot{Nominative, Plural},
			NounSlot{Genitive, Singular},
			NounSlot{Dative, Singular},
			NounSlot{Vocative, Plural},
		}},
		{FirstDeclension, "puella", []Slot{
			NounSlot{Nominative, Singular},
			NounSlot{Ablative, Singular},
			NounSlot{Vocative, Singular},
		}},
		{FirstDeclension, "puellis", []Slot{
			NounSlot{Dative, Plural},
			NounSlot{Ablative, Plural},
		}},
		{SecondDeclensionNeuter, "bella", []Slot{
			NounSlot{Nominative, Plural},
			NounSlot{Accusative, Plural},
			NounSlot{Vocative, Plural},
		}},
		{FirstConjugation, "amabamini", []Slot{
			VerbSlot{Indicative, Imperfect, Passive, Second, Plural},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			a, err := e.Analyze(tt.class, tt.form)
			require.NoError(t, err)
			require.True(t, a.Recognized())
			if diff := cmp.Diff(tt.want, a.Slots()); diff != "" {
				t.Errorf("Analyze(%s) mismatch (-want +got):\n%s", tt.form, diff)
			}
		})
	}
}

func TestAnalyzeStem(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.Analyze(FirstDeclension, "Aguārum")
	require.NoError(t, err)
	assert.Equal(t, Analysis{{Stem: "agu", Slot: NounSlot{Genitive, Plural}}}, a)
}

func TestAnalyzeUnrecognized(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.Analyze(FirstDeclension, "xyz")
	require.NoError(t, err)
	assert.False(t, a.Recognized())
	assert.Empty(t, a)

	_, err = e.Analyze("third-declension", "rex")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestAnalyzeFirst(t *testing.T) {
	e := newTestEngine(t)

	c, ok, err := e.AnalyzeFirst(FirstDeclension, "puellae", ByNumber(Plural))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NounSlot{Nominative, Plural}, c.Slot)

	c, ok, err = e.AnalyzeFirst(FirstDeclension, "puellae", All(ByNumber(Singular), ByCase(Dative)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NounSlot{Dative, Singular}, c.Slot)

	_, ok, err = e.AnalyzeFirst(FirstDeclension, "puellis", ByNumber(Singular))
	require.NoError(t, err)
	assert.False(t, ok)

	c, ok, err = e.AnalyzeFirst(FirstConjugation, "amabuntur", All(ByTense(Future), ByVoice(Passive), ByPerson(Third)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "am", c.Stem)
	assert.Equal(t, Plural, c.Slot.SlotNumber())
}

func TestAnalyzeWith(t *testing.T) {
	e := newTestEngine(t)
	de, ok := e.Exceptions().LookupClass(FirstDeclension, "de")
	require.True(t, ok)

	a, err := e.AnalyzeWith(FirstDeclension, "deabus", de)
	require.NoError(t, err)
	assert.Equal(t, Analysis{
		{Stem: "de", Slot: NounSlot{Dative, Plural}},
		{Stem: "de", Slot: NounSlot{Ablative, Plural}},
	}, a)

	a, err = e.AnalyzeWith(FirstDeclension, "deis", de)
	require.NoError(t, err)
	assert.Len(t, a, 2)

	// Without the entry the override ending is unknown.
	a, err = e.AnalyzeWith(FirstDeclension, "deabus", nil)
	require.NoError(t, err)
	assert.Empty(t, a)

	second, ok := e.Exceptions().LookupClass(SecondDeclension, "de")
	require.True(t, ok)
	_, err = e.AnalyzeWith(FirstDeclension, "deabus", second)
	assert.ErrorIs(t, err, ErrClassMismatch)
}

func TestAnalyzeWithIrregularStem(t *testing.T) {
	e := newTestEngine(t)
	puer, ok := e.Exceptions().LookupClass(SecondDeclension, "puer")
	require.True(t, ok)

	a, err := e.AnalyzeWith(SecondDeclension, "puer", puer)
	require.NoError(t, err)
	assert.Equal(t, []Slot{NounSlot{Nominative, Singular}, NounSlot{Vocative, Singular}}, a.Slots())

	epitom, ok := e.Exceptions().LookupClass(FirstDeclension, "epitom")
	require.True(t, ok)
	a, err = e.AnalyzeWith(FirstDeclension, "epitomes", epitom)
	require.NoError(t, err)
	assert.Equal(t, []Slot{NounSlot{Genitive, Singular}}, a.Slots())
}

func TestRenumber(t *testing.T) {
	e := newTestEngine(t)
	abl := Ablative
	tests := []struct {
		name   string
		class  Class
		form   string
		target Number
		cs     *Case
		want   string
	}{
		{"nominative plural", FirstDeclension, "puellae", Singular, nil, "puella"},
		{"accusative plural", FirstDeclension, "puellas", Singular, nil, "puellam"},
		{"accusative singular", FirstDeclension, "puellam", Plural, nil, "puellas"},
		{"first singular reading wins", FirstDeclension, "puellae", Plural, nil, "puellarum"},
		{"explicit case", FirstDeclension, "puellis", Singular, &abl, "puella"},
		{"second declension", SecondDeclension, "lupos", Singular, nil, "lupum"},
		{"er noun to singular", SecondDeclension, "magistri", Singular, nil, "magister"},
		{"er noun to plural", SecondDeclension, "magister", Plural, nil, "magistri"},
		{"irregular nominative", SecondDeclension, "viri", Singular, nil, "vir"},
		{"verb", FirstConjugation, "amat", Plural, nil, "amant"},
		{"verb passive", FirstConjugation, "laudabimini", Singular, nil, "laudaberis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Renumber(tt.class, tt.form, tt.target, tt.cs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSingularToPlural(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.ToSingular(FirstDeclension, "puellae", nil)
	require.NoError(t, err)
	assert.Equal(t, "puella", got)

	got, err = e.ToPlural(FirstDeclension, "puellam", nil)
	require.NoError(t, err)
	assert.Equal(t, "puellas", got)

	_, err = e.ToSingular(FirstDeclension, "puella", nil)
	assert.ErrorIs(t, err, ErrNoStemFound)

	_, err = e.ToPlural(FirstDeclension, "xyz", nil)
	assert.ErrorIs(t, err, ErrNoStemFound)
}

func TestRecognizes(t *testing.T) {
	e := newTestEngine(t)

	assert.True(t, e.Recognizes(FirstDeclension, "aguarum"))
	assert.True(t, e.Recognizes(FirstDeclension, "deabus"))
	assert.True(t, e.Recognizes(FirstConjugation, "amo"))
	assert.False(t, e.Recognizes(FirstDeclension, "xyz"))
	assert.False(t, e.Recognizes(FirstDeclension, "a"))
	assert.False(t, e.Recognizes("third-declension", "rex"))
}

func TestIdentify(t *testing.T) {
	e := newTestEngine(t)

	matches := e.Identify("deabus")
	var got []Slot
	for _, m := range matches {
		if m.Class == FirstDeclension {
			assert.Equal(t, "de", m.Stem)
			require.NotNil(t, m.Exception)
			assert.True(t, m.Exception.Irregular)
			got = append(got, m.Slot)
		}
	}
	assert.Equal(t, []Slot{NounSlot{Dative, Plural}, NounSlot{Ablative, Plural}}, got)

	matches = e.Identify("viri")
	assert.Contains(t, matches, Match{
		Class:     SecondDeclension,
		Candidate: Candidate{Stem: "vir", Slot: NounSlot{Genitive, Singular}},
		Exception: findMatch(t, matches, SecondDeclension, "vir").Exception,
	})

	assert.Empty(t, e.Identify("xyz"))
}

func TestIdentifyRegular(t *testing.T) {
	e := newTestEngine(t)

	matches := e.Identify("amabant")
	require.Len(t, matches, 1)
	assert.Equal(t, FirstConjugation, matches[0].Class)
	assert.Equal(t, "am", matches[0].Stem)
	assert.Nil(t, matches[0].Exception)
}

func findMatch(t *testing.T, ms []Match, c Class, stem string) Match {
	t.Helper()
	for _, m := range ms {
		if m.Class == c && m.Stem == stem {
			return m
		}
	}
	t.Fatalf("no %s match for stem %q", c, stem)
	return Match{}
}

func TestReadings(t *testing.T) {
	e := newTestEngine(t)

	ms, err := e.Readings(SecondDeclension, "Viri")
	require.NoError(t, err)
	var slots []Slot
	for _, m := range ms {
		assert.Equal(t, "vir", m.Stem)
		assert.Equal(t, SecondDeclension, m.Class)
		slots = append(slots, m.Slot)
	}
	assert.Equal(t, []Slot{
		NounSlot{Nominative, Plural},
		NounSlot{Genitive, Singular},
		NounSlot{Vocative, Plural},
	}, slots)

	ms, err = e.Readings(FirstDeclension, "aguae")
	require.NoError(t, err)
	assert.Len(t, ms, 4)

	_, err = e.Readings("third-declension", "rex")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestIdentifyErNouns(t *testing.T) {
	e := newTestEngine(t)
	nomVoc := []Slot{NounSlot{Nominative, Singular}, NounSlot{Vocative, Singular}}
	tests := []struct {
		form string
		stem string
		want []Slot
	}{
		{"magister", "magistr", nomVoc},
		{"ager", "agr", nomVoc},
		{"liber", "libr", nomVoc},
		{"armiger", "armiger", nomVoc},
		{"puer", "puer", nomVoc},
		{"magistri", "magistr", []Slot{
			NounSlot{Nominative, Plural},
			NounSlot{Genitive, Singular},
			NounSlot{Vocative, Plural},
		}},
		{"agrorum", "agr", []Slot{NounSlot{Genitive, Plural}}},
	}
	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			var got []Slot
			for _, m := range e.Identify(tt.form) {
				if m.Class != SecondDeclension {
					continue
				}
				assert.Equal(t, tt.stem, m.Stem)
				require.NotNil(t, m.Exception)
				assert.Equal(t, tt.stem, m.Exception.Stem)
				got = append(got, m.Slot)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, e.Recognizes(SecondDeclension, tt.form))
		})
	}
}

func TestReadingsContainsMode(t *testing.T) {
	want := []Slot{
		NounSlot{Nominative, Singular},
		NounSlot{Ablative, Singular},
		NounSlot{Vocative, Singular},
	}
	for _, mode := range []AltStemMatch{AltStemExact, AltStemContains} {
		t.Run(mode.String(), func(t *testing.T) {
			e := newTestEngine(t, WithAltStemMatch(mode))

			ms, err := e.Readings(FirstDeclension, "iva")
			require.NoError(t, err)
			var got []Slot
			for _, m := range ms {
				assert.Equal(t, "iv", m.Stem)
				assert.Nil(t, m.Exception, "iv is not a stem of dea")
				got = append(got, m.Slot)
			}
			assert.Equal(t, want, got)
		})
	}

	e := newTestEngine(t, WithAltStemMatch(AltStemContains))
	ms, err := e.Readings(FirstDeclension, "deabus")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "de", ms[0].Stem)
	assert.True(t, ms[0].Exception.Irregular)

	_, err = e.Readings("third-declension", "rex")
	assert.ErrorIs(t, err, ErrUnknownClass)
}
