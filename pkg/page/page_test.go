package page

import (
	"strings"
	"testing"
)

const sampleHTML = `<html>
<body data-w="480" data-h="800" data-top-inset="25">
  <div id="login_button" data-x="10" data-y="20" data-w="40" data-h="15"></div>
  <div id="menu" data-x="100" data-y="40" data-w="60" data-h="60" hidden></div>
</body>
</html>`

func TestHTMLDocRoot(t *testing.T) {
	doc, err := LoadHTML(strings.NewReader(sampleHTML))
	if err != nil {
		t.Fatal(err)
	}

	w, h, ok := doc.Root()
	if !ok || w != 480 || h != 800 {
		t.Fatalf("root = %dx%d ok=%v", w, h, ok)
	}
	if doc.TopInset() != 25 {
		t.Fatalf("top inset = %d", doc.TopInset())
	}
}

func TestHTMLDocRegions(t *testing.T) {
	doc, err := LoadHTML(strings.NewReader(sampleHTML))
	if err != nil {
		t.Fatal(err)
	}

	r, ok := doc.Region("login_button")
	if !ok {
		t.Fatal("login_button not found")
	}
	if r.X != 10 || r.Y != 20 || r.W != 40 || r.H != 15 || !r.Visible {
		t.Fatalf("unexpected region: %+v", r)
	}

	r, ok = doc.Region("menu")
	if !ok || r.Visible {
		t.Fatalf("hidden element should measure as not visible: %+v ok=%v", r, ok)
	}

	if _, ok := doc.Region("missing"); ok {
		t.Fatal("missing region reported found")
	}
}

func TestHTMLDocWithoutBody(t *testing.T) {
	doc, err := LoadHTML(strings.NewReader(`<html><body></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := doc.Root(); ok {
		t.Fatal("body without dimensions must report no root")
	}
}

const sampleSnapshot = `{
  "root": {"w": 480, "h": 800, "topInset": 25},
  "regions": {
    "login_button": {"x": 10, "y": 20, "w": 40, "h": 15, "visible": true},
    "menu": {"x": 100, "y": 40, "w": 60, "h": 60, "visible": false},
    "badge": {"x": 5, "y": 5, "w": 10, "h": 10}
  }
}`

func TestSnapshot(t *testing.T) {
	snap, err := LoadSnapshot([]byte(sampleSnapshot))
	if err != nil {
		t.Fatal(err)
	}

	w, h, ok := snap.Root()
	if !ok || w != 480 || h != 800 {
		t.Fatalf("root = %dx%d ok=%v", w, h, ok)
	}
	if snap.TopInset() != 25 {
		t.Fatalf("top inset = %d", snap.TopInset())
	}

	r, ok := snap.Region("login_button")
	if !ok || !r.Visible || r.W != 40 {
		t.Fatalf("unexpected region: %+v ok=%v", r, ok)
	}
	if r, _ := snap.Region("menu"); r.Visible {
		t.Fatal("menu should be invisible")
	}
	if r, ok := snap.Region("badge"); !ok || !r.Visible {
		t.Fatal("region without visible field defaults to visible")
	}
	if _, ok := snap.Region("missing"); ok {
		t.Fatal("missing region reported found")
	}

	if names := snap.RegionNames(); len(names) != 3 {
		t.Fatalf("region names: %v", names)
	}
}

func TestSnapshotRejectsBadJSON(t *testing.T) {
	if _, err := LoadSnapshot([]byte(`{"root"`)); err == nil {
		t.Fatal("invalid JSON must be rejected")
	}
}

func TestSnapshotNoRoot(t *testing.T) {
	snap, err := LoadSnapshot([]byte(`{"regions": {}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := snap.Root(); ok {
		t.Fatal("snapshot without root must report none")
	}
}

func TestStaticInflater(t *testing.T) {
	inf := NewStaticInflater(Layout{Name: "layout_front", Regions: []string{"hint", "next"}})

	content, err := inf.Inflate("layout_front")
	if err != nil {
		t.Fatal(err)
	}
	sc := content.(*StaticContent)

	if sc.Visible() {
		t.Fatal("fresh content should start hidden")
	}

	sc.SetRegionVisible("hint", true)
	if !sc.RegionVisible("hint") {
		t.Fatal("hint should be visible")
	}
	sc.SetRegionVisible("unknown", true)
	if sc.RegionVisible("unknown") {
		t.Fatal("unknown regions are ignored")
	}

	clicked := 0
	sc.Bind("next", func() { clicked++ })
	sc.Click("next")
	sc.Unbind("next")
	sc.Click("next")
	if clicked != 1 {
		t.Fatalf("clicked %d times, want 1", clicked)
	}

	sc.Destroy()
	if !sc.Destroyed() {
		t.Fatal("destroy flag not set")
	}

	if _, err := inf.Inflate("nope"); err == nil {
		t.Fatal("unknown layout must fail")
	}
}
