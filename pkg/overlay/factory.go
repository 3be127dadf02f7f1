package overlay

import (
	"sync"

	"github.com/ringmask/ringmask/pkg/version"
)

// Factory is a registry of live Overlay instances, one per (page,
// version) pair. The registry lock is independent of per-instance locks:
// lookups may race with instance destruction.
//
// The package-level default factory mirrors the registry most hosts
// want; tests construct their own so no state leaks between them.
type Factory struct {
	mu        sync.Mutex
	instances map[instanceKey]*Overlay
}

type instanceKey struct {
	page                Page
	name                string
	major, minor, patch int
}

func keyFor(id version.Meta[Page]) instanceKey {
	return instanceKey{
		page:  id.Data,
		name:  id.Name,
		major: id.Major,
		minor: id.Minor,
		patch: id.Patch,
	}
}

func NewFactory() *Factory {
	return &Factory{instances: make(map[instanceKey]*Overlay)}
}

// Instance returns the live overlay for id, constructing and registering
// one if none exists. Construction fails with ErrInvalidContentRoot when
// the page exposes no root region.
func (f *Factory) Instance(id version.Meta[Page], inflater Inflater) (*Overlay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyFor(id)
	if o, ok := f.instances[key]; ok {
		return o, nil
	}
	o, err := newOverlay(id, inflater, f)
	if err != nil {
		return nil, err
	}
	f.instances[key] = o
	return o, nil
}

// Clear empties the registry without destroying instances. The instances
// continue to live wherever callers hold them; it is the caller's job to
// destroy them, otherwise they dangle.
func (f *Factory) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances = make(map[instanceKey]*Overlay)
}

// DestroyAll destroys every registered instance and empties the registry.
func (f *Factory) DestroyAll() {
	f.mu.Lock()
	live := make([]*Overlay, 0, len(f.instances))
	for _, o := range f.instances {
		live = append(live, o)
	}
	f.instances = make(map[instanceKey]*Overlay)
	f.mu.Unlock()

	for _, o := range live {
		o.destroyInternal(false)
	}
}

// Len reports the number of registered instances.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.instances)
}

func (f *Factory) destroyInstance(o *Overlay) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.instances, keyFor(o.id))
}

var defaultFactory = NewFactory()

// Instance returns the process-wide overlay for id, constructing it if
// needed.
func Instance(id version.Meta[Page], inflater Inflater) (*Overlay, error) {
	return defaultFactory.Instance(id, inflater)
}

// Clear empties the process-wide registry without destroying instances.
func Clear() { defaultFactory.Clear() }

// DestroyAll destroys every instance in the process-wide registry.
func DestroyAll() { defaultFactory.DestroyAll() }
