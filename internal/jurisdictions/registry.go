package jurisdictions

import (
	"fmt"
	"net/url"
)

// Registry maps jurisdiction names to resolved records. Registration happens
// during startup only; afterwards any number of goroutines may Get and List
// concurrently without locking.
type Registry struct {
	defaults Defaults
	records  map[string]Record
}

func NewRegistry(defaults Defaults) *Registry {
	return &Registry{
		defaults: defaults,
		records:  map[string]Record{},
	}
}

// Register validates a seed, resolves it against the defaults and adds it.
func (r *Registry) Register(s Seed) error {
	if s.Name == "" {
		return fmt.Errorf("%w: record has no name", ErrInvalidRecord)
	}
	if err := validateRootURL(s.RootURL); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRecord, s.Name, err)
	}
	if _, ok := r.records[s.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateJurisdiction, s.Name)
	}

	r.records[s.Name] = r.defaults.Resolve(s)
	return nil
}

// RegisterAll registers seeds in order and stops at the first failure.
func (r *Registry) RegisterAll(seeds []Seed) error {
	for _, s := range seeds {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a copy of the record for name.
func (r *Registry) Get(name string) (Record, error) {
	rec, ok := r.records[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, name)
	}
	return rec.clone(), nil
}

// List returns every registered jurisdiction name in no particular order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.records)
}

func validateRootURL(rootURL string) error {
	if rootURL == "" {
		return fmt.Errorf("empty root URL")
	}

	u, err := url.Parse(rootURL)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("root URL %q is not an absolute http(s) URL", rootURL)
	}
	return nil
}
