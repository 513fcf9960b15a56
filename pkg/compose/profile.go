package compose

import (
	"sort"

	"github.com/pkg/errors"
)

// Kind selects how a relation is resolved.
type Kind string

const (
	// KindCount counts documents in From whose ForeignField equals the
	// base document's LocalField.
	KindCount Kind = "count"
	// KindFlag reports whether such a document also has ActorField equal
	// to the viewer. Always false for Anonymous.
	KindFlag Kind = "flag"
	// KindFirst embeds the first related document or nil.
	KindFirst Kind = "first"
	// KindMany embeds every related document.
	KindMany Kind = "many"
	// KindSize is the length of an earlier many relation named by Of.
	KindSize Kind = "size"
	// KindSum adds up Field across an earlier many relation named by Of.
	KindSum Kind = "sum"
)

func (k Kind) fetches() bool {
	return k == KindCount || k == KindFlag || k == KindFirst || k == KindMany
}

// Via routes a many relation through a join collection. Related documents
// are returned in the join collection's order.
type Via struct {
	Collection  string
	LocalField  string
	TargetField string
	Sort        []Sort
}

type Relation struct {
	Kind Kind
	As   string

	From         string
	LocalField   string // defaults to "id"
	ForeignField string
	ActorField   string
	Where        Filter
	Via          *Via
	Sort         []Sort

	Of    string
	Field string

	// Relations are resolved on each embedded document of a first or many
	// relation. They cannot nest further.
	Relations []Relation
}

func (r Relation) local() string {
	if r.LocalField == "" {
		return "id"
	}
	return r.LocalField
}

// Profile is a declarative recipe: a list of relations plus the whitelist of
// fields the composed document exposes.
type Profile struct {
	Name      string
	Relations []Relation
	Project   Projection
}

func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile has no name")
	}
	if len(p.Project) == 0 {
		return errors.Errorf("profile %s: empty projection", p.Name)
	}
	if err := validateRelations(p.Relations, 0); err != nil {
		return errors.WithMessagef(err, "profile %s", p.Name)
	}
	if err := checkEmbedded(p.Relations, p.Project); err != nil {
		return errors.WithMessagef(err, "profile %s", p.Name)
	}
	return nil
}

func validateRelations(rels []Relation, depth int) error {
	seen := make(map[string]Kind, len(rels))
	for _, r := range rels {
		if r.As == "" {
			return errors.Errorf("%s relation has no output field", r.Kind)
		}
		if _, dup := seen[r.As]; dup {
			return errors.Errorf("relation %s declared twice", r.As)
		}
		switch r.Kind {
		case KindCount, KindFirst, KindMany:
			if r.From == "" || r.ForeignField == "" {
				return errors.Errorf("relation %s needs From and ForeignField", r.As)
			}
		case KindFlag:
			if r.From == "" || r.ForeignField == "" || r.ActorField == "" {
				return errors.Errorf("relation %s needs From, ForeignField and ActorField", r.As)
			}
		case KindSize, KindSum:
			if seen[r.Of] != KindMany {
				return errors.Errorf("relation %s derives from %q which is not an earlier many relation", r.As, r.Of)
			}
			if r.Kind == KindSum && r.Field == "" {
				return errors.Errorf("relation %s needs a Field to sum", r.As)
			}
		default:
			return errors.Errorf("relation %s has unknown kind %q", r.As, r.Kind)
		}
		if r.Via != nil {
			if r.Kind != KindMany {
				return errors.Errorf("relation %s: only many relations may go through a join collection", r.As)
			}
			if r.Via.Collection == "" || r.Via.LocalField == "" || r.Via.TargetField == "" {
				return errors.Errorf("relation %s: incomplete join collection", r.As)
			}
		}
		if len(r.Relations) > 0 {
			if r.Kind != KindFirst && r.Kind != KindMany {
				return errors.Errorf("relation %s: only first and many relations may nest", r.As)
			}
			if depth > 0 {
				return errors.Errorf("relation %s: nested relations may only be one level deep", r.As)
			}
			if err := validateRelations(r.Relations, depth+1); err != nil {
				return errors.WithMessagef(err, "in %s", r.As)
			}
		}
		seen[r.As] = r.Kind
	}
	return nil
}

// checkEmbedded rejects projections that would expose an embedded document
// wholesale.
func checkEmbedded(rels []Relation, proj Projection) error {
	for _, r := range rels {
		if r.Kind != KindFirst && r.Kind != KindMany {
			continue
		}
		sub, ok := proj[r.As]
		if !ok {
			continue
		}
		if len(sub) == 0 {
			return errors.Errorf("relation %s is projected without a field whitelist", r.As)
		}
		if err := checkEmbedded(r.Relations, sub); err != nil {
			return err
		}
	}
	return nil
}

// Registry holds the validated profiles of a process.
type Registry struct {
	profiles map[string]*Profile
}

func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.Name]; dup {
			return nil, errors.Errorf("profile %s registered twice", p.Name)
		}
		r.profiles[p.Name] = p
	}
	return r, nil
}

func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

func (r *Registry) MustGet(name string) *Profile {
	p, ok := r.profiles[name]
	if !ok {
		panic("compose: unknown profile " + name)
	}
	return p
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
