package page

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ringmask/ringmask/pkg/overlay"
)

// Snapshot adapts a JSON page capture to overlay.Page. The expected
// shape:
//
//	{
//	  "root": {"w": 480, "h": 800, "topInset": 25},
//	  "regions": {
//	    "login_button": {"x": 10, "y": 20, "w": 40, "h": 15, "visible": true}
//	  }
//	}
//
// A region without a "visible" field counts as visible.
type Snapshot struct {
	json string
}

// LoadSnapshot validates and wraps a JSON page capture.
func LoadSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("page: snapshot is not valid JSON")
	}
	return &Snapshot{json: string(data)}, nil
}

func (s *Snapshot) Root() (w, h int, ok bool) {
	root := gjson.Get(s.json, "root")
	if !root.Exists() {
		return 0, 0, false
	}
	w = int(root.Get("w").Int())
	h = int(root.Get("h").Int())
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func (s *Snapshot) TopInset() int {
	return int(gjson.Get(s.json, "root.topInset").Int())
}

func (s *Snapshot) Region(ref string) (overlay.Region, bool) {
	r := gjson.Get(s.json, "regions").Get(escapePath(ref))
	if !r.Exists() {
		return overlay.Region{}, false
	}
	visible := true
	if v := r.Get("visible"); v.Exists() {
		visible = v.Bool()
	}
	return overlay.Region{
		X:       int(r.Get("x").Int()),
		Y:       int(r.Get("y").Int()),
		W:       int(r.Get("w").Int()),
		H:       int(r.Get("h").Int()),
		Visible: visible,
	}, true
}

// RegionNames lists the region refs present in the snapshot.
func (s *Snapshot) RegionNames() []string {
	var names []string
	gjson.Get(s.json, "regions").ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

// escapePath protects gjson path metacharacters in region names.
func escapePath(ref string) string {
	out := make([]byte, 0, len(ref))
	for i := 0; i < len(ref); i++ {
		switch ref[i] {
		case '.', '*', '?', '\\':
			out = append(out, '\\')
		}
		out = append(out, ref[i])
	}
	return string(out)
}
