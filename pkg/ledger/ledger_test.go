package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ringmask/ringmask/pkg/version"
)

func mustVersion(t *testing.T, name, s string) version.Version {
	t.Helper()
	v, err := version.Parse(name, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// runContract exercises the Ledger contract shared by every adapter.
func runContract(t *testing.T, led Ledger) {
	t.Helper()

	overlayKey := Key{Overlay: "Main-1.0.0"}
	slideKey := Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0"}
	ringKey := Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0", Ring: "Login"}

	v200 := mustVersion(t, "Login", "200.0.0")
	v201 := mustVersion(t, "Login", "201.0.0")

	for _, k := range []Key{overlayKey, slideKey, ringKey} {
		if !led.IsNew(k) {
			t.Fatalf("%s should be new before any register", k)
		}
	}

	led.Register(ringKey, v200)
	if led.IsNew(ringKey) {
		t.Fatal("ring should not be new after register")
	}
	// Sibling keys are independent; a different ring is still new.
	if !led.IsNew(slideKey.withRing("Other")) {
		t.Fatal("sibling ring key must stay new")
	}

	// Recorded version round-trips through the relative check.
	if led.IsNewRelativeTo(ringKey, v200) {
		t.Fatal("equal version is not new")
	}
	if led.IsNewRelativeTo(ringKey, mustVersion(t, "Login", "199.9.9")) {
		t.Fatal("older version is not new")
	}
	if !led.IsNewRelativeTo(ringKey, v201) {
		t.Fatal("strictly newer version must be new again")
	}

	// Registering slide and overlay must not destroy the ring record.
	led.Register(slideKey, mustVersion(t, "Front", "102.0.0"))
	led.Register(overlayKey, mustVersion(t, "Main", "1.0.0"))
	if led.IsNew(ringKey) {
		t.Fatal("ring record lost after registering parents")
	}
	if led.IsNew(slideKey) || led.IsNew(overlayKey) {
		t.Fatal("slide/overlay records missing")
	}

	led.Unregister(ringKey)
	if !led.IsNew(ringKey) {
		t.Fatal("unregistered ring should be new")
	}
	if led.IsNew(slideKey) {
		t.Fatal("unregistering a ring must not touch the slide record")
	}
}

func (k Key) withRing(ring string) Key {
	k.Ring = ring
	return k
}

func TestMemoryContract(t *testing.T) {
	runContract(t, NewMemory())
}

func TestDirContract(t *testing.T) {
	led, err := NewDir(filepath.Join(t.TempDir(), "ledger"))
	if err != nil {
		t.Fatal(err)
	}
	runContract(t, led)
}

func TestSQLiteContract(t *testing.T) {
	led, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer led.Close()
	runContract(t, led)
}

func TestSQLiteList(t *testing.T) {
	led, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer led.Close()

	led.Register(Key{Overlay: "Main-1.0.0"}, mustVersion(t, "Main", "1.0.0"))
	led.Register(Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0"}, mustVersion(t, "Front", "102.0.0"))

	entries, err := led.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Scope != "Main-1.0.0" || entries[0].Triple != "1.0.0" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
}

func TestDirSurvivesReopen(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ledger")
	led, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0", Ring: "Login"}
	led.Register(key, mustVersion(t, "Login", "200.0.0"))

	reopened, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.IsNew(key) {
		t.Fatal("record must survive reopen")
	}
	if reopened.IsNewRelativeTo(key, mustVersion(t, "Login", "200.0.0")) {
		t.Fatal("recorded triple must survive reopen")
	}
}

func TestDirCorruptRecordReadsAsNew(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ledger")
	led, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0", Ring: "Login"}
	led.Register(key, mustVersion(t, "Login", "200.0.0"))

	// Garbage in the ring file must read as no record at all.
	ringFile := filepath.Join(root, "Main-1.0.0", "Front-102.0.0", "Login")
	if err := os.WriteFile(ringFile, []byte("not a version"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !led.IsNew(key) {
		t.Fatal("corrupt ring record must read as new")
	}
	if !led.IsNewRelativeTo(key, mustVersion(t, "Login", "0.0.1")) {
		t.Fatal("corrupt ring record must read as new for any version")
	}

	// Same for a slide-level version file.
	slideKey := Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0"}
	led.Register(slideKey, mustVersion(t, "Front", "102.0.0"))
	versionFile := filepath.Join(root, "Main-1.0.0", "Front-102.0.0", ".version")
	if err := os.WriteFile(versionFile, []byte("#!garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !led.IsNewRelativeTo(slideKey, mustVersion(t, "Front", "1.0.0")) {
		t.Fatal("corrupt slide record must read as new for any version")
	}
}

func TestSQLiteNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.sqlite")
	if err := os.WriteFile(path, []byte("this is not a database"), 0o644); err != nil {
		t.Fatal(err)
	}

	led, err := OpenSQLite(path)
	if err != nil {
		// The constructor rejected the file. Callers then run without a
		// ledger, where everything counts as new.
		return
	}
	defer led.Close()

	key := Key{Overlay: "Main-1.0.0"}
	if !led.IsNew(key) {
		t.Fatal("unreadable storage must read as new")
	}
	if !led.IsNewRelativeTo(key, mustVersion(t, "Main", "1.0.0")) {
		t.Fatal("unreadable storage must read as new for any version")
	}
}

func TestSQLiteClosedHandleReadsAsNew(t *testing.T) {
	led, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	key := Key{Overlay: "Main-1.0.0"}
	led.Register(key, mustVersion(t, "Main", "1.0.0"))
	if err := led.Close(); err != nil {
		t.Fatal(err)
	}

	if !led.IsNew(key) {
		t.Fatal("a handle that cannot read must answer new")
	}
	if !led.IsNewRelativeTo(key, mustVersion(t, "Main", "0.0.1")) {
		t.Fatal("a handle that cannot read must answer new for any version")
	}

	// Writes stay best-effort: swallowed, not panicking.
	led.Register(key, mustVersion(t, "Main", "2.0.0"))
	led.Unregister(key)
}

func TestRemoteMirrorsWrites(t *testing.T) {
	posts := make(chan string, 1)
	deletes := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			posts <- r.URL.Path
		case http.MethodDelete:
			deletes <- r.URL.Query().Get("scope")
		}
	}))
	defer srv.Close()

	local := NewMemory()
	led := NewRemote(local, srv.URL+"/seen")
	key := Key{Overlay: "Main-1.0.0"}

	led.Register(key, mustVersion(t, "Main", "1.0.0"))
	if local.IsNew(key) {
		t.Fatal("local register must be synchronous")
	}
	select {
	case <-posts:
	case <-time.After(5 * time.Second):
		t.Fatal("register was not mirrored")
	}

	led.Unregister(key)
	if !local.IsNew(key) {
		t.Fatal("local unregister must be synchronous")
	}
	select {
	case got := <-deletes:
		if got != key.String() {
			t.Fatalf("mirrored scope = %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("unregister was not mirrored")
	}
}

func TestRemoteEndpointDownIsSoft(t *testing.T) {
	local := NewMemory()
	led := NewRemote(local, "http://127.0.0.1:1/unreachable")
	key := Key{Overlay: "Main-1.0.0"}

	led.Register(key, mustVersion(t, "Main", "1.0.0"))
	if led.IsNew(key) {
		t.Fatal("unreachable mirror must not affect local state")
	}
}
