package cmd

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/ringmask/ringmask/pkg/compositor"
	"github.com/ringmask/ringmask/pkg/ledger"
	"github.com/ringmask/ringmask/pkg/page"
	"github.com/ringmask/ringmask/pkg/version"
)

func mustTestVersion(t *testing.T, name, s string) version.Version {
	t.Helper()
	v, err := version.Parse(name, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

const sampleTour = `{
  "overlay": {"name": "TourTest", "version": "1.0.0"},
  "slides": [{
    "name": "Front", "version": "102.0.0", "layout": "front",
    "tint": "#80FF0000", "ringCount": 3,
    "rings": [
      {"name": "Login", "version": "200.0.0", "pageRegion": "login_button",
       "slideRegion": "login_hint", "padding": 4, "thickness": 6},
      {"name": "Menu", "version": "1", "pageRegion": "menu_button",
       "color": "336699", "maxDimension": 48}
    ]
  }]
}`

const samplePage = `{
  "root": {"w": 480, "h": 800, "topInset": 25},
  "regions": {
    "login_button": {"x": 10, "y": 20, "w": 40, "h": 15},
    "menu_button": {"x": 200, "y": 60, "w": 48, "h": 48}
  }
}`

func TestBuildTour(t *testing.T) {
	pg, err := page.LoadSnapshot([]byte(samplePage))
	if err != nil {
		t.Fatal(err)
	}

	o, slides, err := buildTour(gjson.Parse(sampleTour), pg)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Destroy()

	if o.Version().String() != "TourTest-1.0.0" {
		t.Fatalf("overlay id = %s", o.Version())
	}
	if len(slides) != 1 {
		t.Fatalf("expected one slide, got %d", len(slides))
	}

	s := slides[0]
	if s.String() != "Front-102.0.0" || s.LayoutRef() != "front" {
		t.Fatalf("slide = %s layout %s", s, s.LayoutRef())
	}
	if s.TintColor() != 0x80FF0000 || s.RingCount() != 3 {
		t.Fatalf("slide styling: tint=%s count=%d", s.TintColor(), s.RingCount())
	}

	rings := s.Rings()
	if len(rings) != 2 {
		t.Fatalf("expected two rings, got %d", len(rings))
	}
	login := rings[0]
	if login.PageRegion != "login_button" || login.SlideRegion != "login_hint" {
		t.Fatalf("login wiring: %+v", login)
	}
	if login.ID.Data.Padding != 4 || login.ID.Data.Thickness != 6 {
		t.Fatalf("login look-and-feel: %+v", login.ID.Data)
	}

	menu := rings[1]
	if !menu.Version().EqualParts(1, 0, 0) {
		t.Fatalf("short version not defaulted: %s", menu.Version())
	}
	if !menu.ID.Data.CustomColor || menu.ID.Data.RingColor != compositor.ARGB(0xFF336699) {
		t.Fatalf("menu color: %+v", menu.ID.Data)
	}
	if menu.ID.Data.MaxDimension != 48 {
		t.Fatalf("menu maxDimension = %d", menu.ID.Data.MaxDimension)
	}

	// The built slides attach and show end to end.
	o.SetLedger(ledger.NewMemory())
	for _, s := range slides {
		if err := o.Attach(s); err != nil {
			t.Fatal(err)
		}
	}
	if !o.AutoShow() {
		t.Fatal("tour should have something to show")
	}
}

func TestShowSlideForcedAutoShow(t *testing.T) {
	pg, err := page.LoadSnapshot([]byte(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	o, slides, err := buildTour(gjson.Parse(sampleTour), pg)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Destroy()

	// Everything in the tour is already on record.
	led := ledger.NewMemory()
	led.Register(ledger.Key{Overlay: "TourTest-1.0.0"}, mustTestVersion(t, "TourTest", "1.0.0"))
	led.Register(ledger.Key{Overlay: "TourTest-1.0.0", Slide: "Front-102.0.0"}, mustTestVersion(t, "Front", "102.0.0"))
	led.Register(ledger.Key{Overlay: "TourTest-1.0.0", Slide: "Front-102.0.0", Ring: "Login"}, mustTestVersion(t, "Login", "200.0.0"))
	led.Register(ledger.Key{Overlay: "TourTest-1.0.0", Slide: "Front-102.0.0", Ring: "Menu"}, mustTestVersion(t, "Menu", "1.0.0"))
	o.SetLedger(led)
	for _, s := range slides {
		if err := o.Attach(s); err != nil {
			t.Fatal(err)
		}
	}

	before := led.Len()
	if !showSlide(o, len(slides), -1, true) {
		t.Fatal("forced auto-show must show already-seen content")
	}
	if o.Background() == nil {
		t.Fatal("forced auto-show must render a mask")
	}
	if led.Len() != before {
		t.Fatal("forced showing must not record anything")
	}
}

func TestBuildTourRejectsBrokenScripts(t *testing.T) {
	pg, err := page.LoadSnapshot([]byte(samplePage))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		tour string
	}{
		{"no overlay name", `{"slides": [{"name": "S", "layout": "l"}]}`},
		{"no slides", `{"overlay": {"name": "X"}}`},
		{"slide without layout", `{"overlay": {"name": "X"}, "slides": [{"name": "S"}]}`},
		{"ring without pageRegion", `{"overlay": {"name": "X"}, "slides": [{"name": "S", "layout": "l", "rings": [{"name": "R"}]}]}`},
		{"bad tint", `{"overlay": {"name": "X"}, "slides": [{"name": "S", "layout": "l", "tint": "red"}]}`},
		{"bad version", `{"overlay": {"name": "X", "version": "a.b"}, "slides": [{"name": "S", "layout": "l"}]}`},
	}
	for _, c := range cases {
		if _, _, err := buildTour(gjson.Parse(c.tour), pg); err == nil {
			t.Fatalf("%s: expected an error", c.name)
		}
	}
}

func TestSplitScope(t *testing.T) {
	cases := []struct {
		in   string
		want ledger.Key
	}{
		{"Main-1.0.0", ledger.Key{Overlay: "Main-1.0.0"}},
		{"Main-1.0.0/Front-102.0.0", ledger.Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0"}},
		{"Main-1.0.0/Front-102.0.0/Login", ledger.Key{Overlay: "Main-1.0.0", Slide: "Front-102.0.0", Ring: "Login"}},
	}
	for _, c := range cases {
		got := splitScope(c.in)
		if got != c.want {
			t.Fatalf("splitScope(%q) = %+v", c.in, got)
		}
		if got.String() != c.in {
			t.Fatalf("scope %q does not round-trip: %q", c.in, got.String())
		}
	}
}
