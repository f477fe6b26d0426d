package reaction

import (
	"encoding/json"
	"fmt"
	"os"
)

// criterionFile is the on-disk shape of a single criterion: a Kind
// discriminator plus whichever atom refs that kind needs, plus the
// min/max threshold the criterion is checked against.
type criterionFile struct {
	Kind     string  `json:"kind"`
	A        AtomRef `json:"a"`
	B        AtomRef `json:"b"`
	C        AtomRef `json:"c,omitempty"`
	D        AtomRef `json:"d,omitempty"`
	MinValue float64 `json:"min"`
	MaxValue float64 `json:"max"`
}

func (cf criterionFile) build() (Criterion, error) {
	switch cf.Kind {
	case "distance":
		return &DistanceCriterion{A: cf.A, B: cf.B, MinValue: cf.MinValue, MaxValue: cf.MaxValue}, nil
	case "angle":
		return &AngleCriterion{A: cf.A, B: cf.B, C: cf.C, MinValue: cf.MinValue, MaxValue: cf.MaxValue}, nil
	case "dihedral":
		return &DihedralCriterion{A: cf.A, B: cf.B, C: cf.C, D: cf.D, MinValue: cf.MinValue, MaxValue: cf.MaxValue}, nil
	default:
		return nil, Error{message: fmt.Sprintf("unknown criterion kind %q", cf.Kind)}
	}
}

// templateFile is the on-disk JSON shape of a whole reaction template: name,
// reactant/product patterns, criteria, transitions, translations, energy,
// and the piecewise rate table.
type templateFile struct {
	Name         string           `json:"name"`
	Reactants    []ReactantPattern `json:"reactants"`
	Products     []ProductPattern  `json:"products"`
	Criteria     []criterionFile   `json:"criteria"`
	Transitions  []Transition      `json:"transitions"`
	Translations []Translation     `json:"translations"`
	Energy       float64           `json:"energy"`
	Rate         []RatePoint       `json:"rate"`
}

// LoadTemplate reads and consistency-checks a reaction template from a JSON
// file, returning an Error if the declaration is structurally invalid.
func LoadTemplate(path string) (*ReactionTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error{message: fmt.Sprintf("reading %q: %v", path, err)}
	}

	var tf templateFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, Error{message: fmt.Sprintf("parsing %q: %v", path, err)}
	}

	tpl := &ReactionTemplate{
		Name:         tf.Name,
		Reactants:    tf.Reactants,
		Products:     tf.Products,
		Transitions:  tf.Transitions,
		Translations: tf.Translations,
		Energy:       tf.Energy,
		Rate:         tf.Rate,
	}
	for _, cf := range tf.Criteria {
		c, err := cf.build()
		if err != nil {
			return nil, Error{message: fmt.Sprintf("%s: %v", path, err)}
		}
		tpl.Criteria = append(tpl.Criteria, c)
	}

	if err := tpl.ConsistencyCheck(); err != nil {
		return nil, err
	}
	return tpl, nil
}

// LoadTemplates loads every path, stopping at the first error.
func LoadTemplates(paths []string) ([]*ReactionTemplate, error) {
	templates := make([]*ReactionTemplate, 0, len(paths))
	for _, p := range paths {
		tpl, err := LoadTemplate(p)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}
