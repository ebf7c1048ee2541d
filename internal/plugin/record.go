package plugin

import (
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Record is the parsed metadata the loader hands to the registry. Nested
// bundles stay a tree here and are flattened once by ToPlugin.
type Record struct {
	ID        string   `validate:"required"`
	Name      string   `validate:"-"`
	Provides  []string `validate:"dive,required"`
	DependsOn []string `validate:"dive,required"`
	Stability int      `validate:"gte=0"`
	Status    Status   `validate:"gte=0,lte=2"`
	Lock      Lock     `validate:"gte=0,lte=2"`
	Source    string   `validate:"-"`
	Contains  []Record `validate:"dive"`
}

// Validate checks the record is usable for ingestion.
func (r Record) Validate() error {
	if err := validatorInstance().Struct(r); err != nil {
		return &ErrInvalidRecord{ID: r.ID, Source: r.Source, Err: err}
	}
	return nil
}

// ToPlugin flattens the record tree into a Plugin. Dependencies of bundled
// sub-plugins are merged into DependsOn, and the plugin's own id is dropped
// from it.
func (r Record) ToPlugin() *Plugin {
	deps := make(map[string]struct{})
	collectDepends(r, deps)
	delete(deps, r.ID)

	var modules []string
	collectModules(r, &modules)

	return &Plugin{
		ID:        r.ID,
		Name:      r.Name,
		Provides:  uniqueSorted(r.Provides),
		DependsOn: sortedKeys(deps),
		Modules:   modules,
		Stability: r.Stability,
		Status:    r.Status,
		Lock:      r.Lock,
		Source:    r.Source,
	}
}

func collectDepends(r Record, into map[string]struct{}) {
	for _, dep := range r.DependsOn {
		into[dep] = struct{}{}
	}
	for _, nested := range r.Contains {
		collectDepends(nested, into)
	}
}

func collectModules(r Record, into *[]string) {
	for _, nested := range r.Contains {
		collectModules(nested, into)
		*into = append(*into, nested.ID)
	}
}

func uniqueSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
