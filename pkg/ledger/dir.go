package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/version"
)

// Dir is a directory-per-identity Ledger: one directory per overlay, one
// per slide beneath it, and one file per ring whose contents are the full
// version triple. Overlay and slide records also keep their triple in a
// ".version" file so relative checks work at every level.
//
// A sibling ".lock" file serializes mutations across processes.
type Dir struct {
	root string
	lock *flock.Flock
}

// NewDir creates (if needed) the backing directory. A regular file in the
// way is removed first; failing that, the constructor errors since the
// ledger would be permanently unreadable.
func NewDir(root string) (*Dir, error) {
	if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
		if err := os.Remove(root); err != nil {
			return nil, fmt.Errorf("ledger: %s is a file and cannot be removed: %w", root, err)
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create %s: %w", root, err)
	}
	return &Dir{
		root: root,
		lock: flock.New(filepath.Join(root, ".lock")),
	}, nil
}

const dirVersionFile = ".version"

func (d *Dir) IsNew(key Key) bool {
	p := d.path(key)
	if key.Ring != "" {
		_, ok := d.readTriple(p)
		return !ok
	}
	fi, err := os.Stat(p)
	return err != nil || !fi.IsDir()
}

func (d *Dir) IsNewRelativeTo(key Key, v version.Version) bool {
	p := d.path(key)
	if key.Ring == "" {
		p = filepath.Join(p, dirVersionFile)
	}
	last, ok := d.readTriple(p)
	if !ok {
		return true
	}
	return v.NewerThanParts(last[0], last[1], last[2])
}

// readTriple reads a recorded version triple. A record that is missing,
// empty or corrupt reads as absent, so the content it guards shows again.
func (d *Dir) readTriple(p string) ([3]int, bool) {
	raw, err := os.ReadFile(p)
	if err != nil || len(raw) == 0 {
		return [3]int{}, false
	}
	last, err := version.ParseTriple(strings.TrimSpace(string(raw)))
	if err != nil {
		return [3]int{}, false
	}
	return last, true
}

func (d *Dir) Register(key Key, v version.Version) {
	if err := d.lock.Lock(); err == nil {
		defer d.lock.Unlock()
	}

	p := d.path(key)
	file := p
	if key.Ring == "" {
		file = filepath.Join(p, dirVersionFile)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		utils.Log.Debugf("ledger: register %s: %v", key, err)
		return
	}
	if err := os.WriteFile(file, []byte(v.Full()), 0o644); err != nil {
		utils.Log.Debugf("ledger: register %s: %v", key, err)
	}
}

func (d *Dir) Unregister(key Key) {
	if err := d.lock.Lock(); err == nil {
		defer d.lock.Unlock()
	}

	p := d.path(key)
	var err error
	if key.Ring != "" {
		err = os.Remove(p)
	} else {
		err = os.RemoveAll(p)
	}
	if err != nil && !os.IsNotExist(err) {
		utils.Log.Debugf("ledger: unregister %s: %v", key, err)
	}
}

func (d *Dir) path(key Key) string {
	p := d.root
	for _, part := range []string{key.Overlay, key.Slide, key.Ring} {
		if part != "" {
			p = filepath.Join(p, sanitize(part))
		}
	}
	return p
}

// sanitize keeps identity names from escaping the ledger root.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", string(os.PathSeparator), "_", "..", "_")
	return r.Replace(name)
}
