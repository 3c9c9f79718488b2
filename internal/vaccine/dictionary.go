package vaccine

import "sort"

// DictionaryKey is the fixed storage key the learned vocabulary persists
// under, as a JSON array of lower-cased names.
const DictionaryKey = "vaccine.dictionary"

// Vaccine-family keywords that seed a fresh dictionary before any training
// has happened.
var bootstrapKeywords = []string{
	"diphtheria", "tetanus", "pertussis", "hepatitis", "haemophilus",
	"polio", "pneumococcal", "rotavirus", "measles", "mumps", "rubella",
	"varicella", "influenza", "meningococcal", "hpv", "covid-19",
	"bcg", "cholera", "typhoid", "rabies", "yellow fever", "japanese encephalitis",
}

// Dictionary is the learned vocabulary of known vaccine name fragments.
// Members are lower-cased; growth is monotonic.
type Dictionary map[string]struct{}

func NewDictionary(terms ...string) Dictionary {
	d := make(Dictionary, len(terms))
	for _, t := range terms {
		d[t] = struct{}{}
	}
	return d
}

// Bootstrap returns a fresh dictionary holding the default keyword set.
func Bootstrap() Dictionary {
	return NewDictionary(bootstrapKeywords...)
}

func (d Dictionary) Has(term string) bool {
	_, ok := d[term]
	return ok
}

func (d Dictionary) Add(term string) {
	d[term] = struct{}{}
}

func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for t := range d {
		out[t] = struct{}{}
	}
	return out
}

// Terms returns the members in sorted order, for stable persistence and
// display.
func (d Dictionary) Terms() []string {
	out := make([]string, 0, len(d))
	for t := range d {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Store abstracts dictionary persistence so training stays unit-testable
// without a real backend. Load returns the bootstrap set when nothing has
// been stored yet.
type Store interface {
	Load() (Dictionary, error)
	Save(Dictionary) error
}
