// Package page provides concrete Page and Inflater implementations so
// overlays can run against documents and static layouts instead of a live
// view hierarchy: an HTML adapter, a JSON snapshot adapter and a static
// content inflater.
package page

import (
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/ringmask/ringmask/pkg/overlay"
)

// HTMLDoc adapts an HTML document to overlay.Page. Regions are elements
// addressed by id; geometry comes from data-x, data-y, data-w and data-h
// attributes and visibility from the standard hidden attribute. The body
// carries the root size (data-w, data-h) and optional data-top-inset.
type HTMLDoc struct {
	doc *goquery.Document
}

// LoadHTML parses an HTML document from r.
func LoadHTML(r io.Reader) (*HTMLDoc, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse html: %w", err)
	}
	return &HTMLDoc{doc: doc}, nil
}

func (h *HTMLDoc) Root() (w, hgt int, ok bool) {
	body := h.doc.Find("body").First()
	if body.Length() == 0 {
		return 0, 0, false
	}
	w = intAttr(body, "data-w", 0)
	hgt = intAttr(body, "data-h", 0)
	if w <= 0 || hgt <= 0 {
		return 0, 0, false
	}
	return w, hgt, true
}

func (h *HTMLDoc) TopInset() int {
	return intAttr(h.doc.Find("body").First(), "data-top-inset", 0)
}

func (h *HTMLDoc) Region(ref string) (overlay.Region, bool) {
	sel := h.doc.Find("#" + ref).First()
	if sel.Length() == 0 {
		return overlay.Region{}, false
	}
	_, hidden := sel.Attr("hidden")
	return overlay.Region{
		X:       intAttr(sel, "data-x", 0),
		Y:       intAttr(sel, "data-y", 0),
		W:       intAttr(sel, "data-w", 0),
		H:       intAttr(sel, "data-h", 0),
		Visible: !hidden,
	}, true
}

func intAttr(sel *goquery.Selection, name string, fallback int) int {
	raw, ok := sel.Attr(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
