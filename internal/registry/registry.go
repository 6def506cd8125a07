// Package registry resolves repository names against the merged configuration.
package registry

import (
	"sort"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
)

// Entry is one repository as shown by the list command.
type Entry struct {
	Name     string
	Location string
}

// Registry is a read-only view over the merged repositories map.
type Registry struct {
	cfg *config.Config
}

// New creates a registry over the given merged configuration.
func New(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

// Get returns the repository settings for name.
func (r *Registry) Get(name string) (config.Repository, error) {
	repo, ok := r.cfg.Repositories[name]
	if !ok {
		return config.Repository{}, berrors.NewUnknownRepositoryError(name, r.Names())
	}
	return repo, nil
}

// Names returns all configured repository names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cfg.Repositories))
	for name := range r.cfg.Repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all repositories sorted by name, regardless of declaration
// order in the config sources.
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, len(r.cfg.Repositories))
	for _, name := range r.Names() {
		entries = append(entries, Entry{
			Name:     name,
			Location: r.cfg.Repositories[name].Repository,
		})
	}
	return entries
}

// Len returns the number of configured repositories.
func (r *Registry) Len() int {
	return len(r.cfg.Repositories)
}
