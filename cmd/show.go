package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/compositor"
	"github.com/ringmask/ringmask/pkg/ledger"
	"github.com/ringmask/ringmask/pkg/overlay"
	"github.com/ringmask/ringmask/pkg/page"
	"github.com/ringmask/ringmask/pkg/version"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Run a tour script against a page and write the composited mask",
	Long: `Loads a measured page (HTML document or JSON snapshot), builds the
slides and rings described by a tour script, and shows the first slide the
ledger lets through (or a specific slide with --slide). The composited
mask is written as a PNG when anything was shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pagePath, _ := cmd.Flags().GetString("page")
		tourPath, _ := cmd.Flags().GetString("tour")
		outPath, _ := cmd.Flags().GetString("out")
		slideIdx, _ := cmd.Flags().GetInt("slide")
		force, _ := cmd.Flags().GetBool("force")
		ledgerPath, _ := cmd.Flags().GetString("ledger")

		pg, err := loadPage(pagePath)
		if err != nil {
			return err
		}

		tourData, err := os.ReadFile(tourPath)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(tourData) {
			return fmt.Errorf("tour script %s is not valid JSON", tourPath)
		}
		tour := gjson.ParseBytes(tourData)

		led, closeLedger, err := openLedger(ledgerPath)
		if err != nil {
			return err
		}
		defer closeLedger()

		o, slides, err := buildTour(tour, pg)
		if err != nil {
			return err
		}
		o.SetLedger(led)
		for _, s := range slides {
			if err := o.Attach(s); err != nil {
				return err
			}
		}

		if !showSlide(o, len(slides), slideIdx, force) {
			fmt.Println("Nothing to show: every slide was seen already or resolved to hidden.")
			return nil
		}

		current := o.CurrentSlide()
		if current == nil {
			// Already-seen content is handled successfully without rendering.
			fmt.Println("Everything in this tour was already seen; nothing rendered.")
			return nil
		}
		fmt.Printf("Showing slide %s", current)
		for _, r := range current.Rings() {
			fmt.Printf("\n  ring %s -> %s", r, r.PageRegion)
		}
		fmt.Println()

		if mask := o.Background(); mask != nil && outPath != "" {
			if err := compositor.WritePNG(mask, outPath); err != nil {
				return err
			}
			utils.Log.Infof("mask written to %s", outPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("page", "p", "", "Measured page: .html document or .json snapshot (required)")
	showCmd.Flags().StringP("tour", "t", "", "Tour script JSON (required)")
	showCmd.Flags().StringP("out", "o", "mask.png", "Where to write the composited mask PNG")
	showCmd.Flags().IntP("slide", "s", -1, "Show the slide at this index instead of auto-showing")
	showCmd.Flags().BoolP("force", "f", false, "Skip the ledger: show even if already seen, record nothing")
	showCmd.Flags().String("ledger", "", "Ledger database path (default from config ledger.path)")
	showCmd.MarkFlagRequired("page")
	showCmd.MarkFlagRequired("tour")
}

// showSlide runs the selected show variant: a specific slide when
// slideIdx is non-negative, otherwise the first showable one. Forced
// showing skips the ledger in both modes; a forced auto-show walks the
// slides itself since only the ledger-checked walk may destroy the
// overlay.
func showSlide(o *overlay.Overlay, slideCount, slideIdx int, force bool) bool {
	switch {
	case slideIdx >= 0 && force:
		return o.ShowAtForced(slideIdx)
	case slideIdx >= 0:
		return o.ShowAt(slideIdx)
	case force:
		for i := 0; i < slideCount; i++ {
			if o.ShowAtForced(i) {
				return true
			}
		}
		return false
	default:
		return o.AutoShow()
	}
}

func loadPage(path string) (overlay.Page, error) {
	if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return page.LoadHTML(f)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return page.LoadSnapshot(data)
}

// openLedger builds the configured ledger chain: sqlite locally, mirrored
// to a remote collector when ledger.remote is set.
func openLedger(path string) (ledger.Ledger, func(), error) {
	if path == "" {
		path = viper.GetString("ledger.path")
	}
	db, err := ledger.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}

	var led ledger.Ledger = db
	if remote := viper.GetString("ledger.remote"); remote != "" {
		led = ledger.NewRemote(db, remote)
	}
	return led, func() { db.Close() }, nil
}

// buildTour turns a parsed tour script into an overlay and its slides.
//
// Script shape:
//
//	{
//	  "overlay": {"name": "Main", "version": "1.0.0"},
//	  "slides": [{
//	    "name": "Front", "version": "102.0.0", "layout": "front",
//	    "tint": "0xC0000000", "ringCount": 4,
//	    "rings": [{
//	      "name": "Login", "version": "200.0.0",
//	      "pageRegion": "login_button", "slideRegion": "login_hint",
//	      "padding": 2, "thickness": 10, "color": "#FF6699CC",
//	      "maxDimension": 0
//	    }]
//	  }]
//	}
func buildTour(tour gjson.Result, pg overlay.Page) (*overlay.Overlay, []*overlay.Slide, error) {
	name := tour.Get("overlay.name").String()
	if name == "" {
		return nil, nil, fmt.Errorf("tour script: overlay.name is required")
	}
	id, err := version.ParseMeta(name, pg, tourVersion(tour.Get("overlay")))
	if err != nil {
		return nil, nil, err
	}

	var (
		slides  []*overlay.Slide
		layouts []page.Layout
	)
	for _, sj := range tour.Get("slides").Array() {
		s, layout, err := buildSlide(sj)
		if err != nil {
			return nil, nil, err
		}
		slides = append(slides, s)
		layouts = append(layouts, layout)
	}
	if len(slides) == 0 {
		return nil, nil, fmt.Errorf("tour script: no slides")
	}

	o, err := overlay.Instance(id, page.NewStaticInflater(layouts...))
	if err != nil {
		return nil, nil, err
	}
	return o, slides, nil
}

func buildSlide(sj gjson.Result) (*overlay.Slide, page.Layout, error) {
	name := sj.Get("name").String()
	layoutRef := sj.Get("layout").String()
	if name == "" || layoutRef == "" {
		return nil, page.Layout{}, fmt.Errorf("tour script: slide needs name and layout")
	}

	id, err := version.ParseMeta(name, layoutRef, tourVersion(sj))
	if err != nil {
		return nil, page.Layout{}, err
	}
	s := overlay.NewSlide(id)
	if tint := sj.Get("tint"); tint.Exists() {
		c, err := utils.ParseARGB(tint.String())
		if err != nil {
			return nil, page.Layout{}, fmt.Errorf("tour script: slide %s: %w", name, err)
		}
		s.SetTintColor(compositor.ARGB(c))
	}
	if n := sj.Get("ringCount"); n.Exists() {
		s.SetRingCount(int(n.Int()))
	}

	layout := page.Layout{Name: layoutRef}
	for _, rj := range sj.Get("rings").Array() {
		r, err := buildRing(rj)
		if err != nil {
			return nil, page.Layout{}, fmt.Errorf("tour script: slide %s: %w", name, err)
		}
		s.AddRing(r)
		if r.SlideRegion != "" {
			layout.Regions = append(layout.Regions, r.SlideRegion)
		}
	}
	return s, layout, nil
}

func buildRing(rj gjson.Result) (*overlay.Ring, error) {
	name := rj.Get("name").String()
	pageRegion := rj.Get("pageRegion").String()
	if name == "" || pageRegion == "" {
		return nil, fmt.Errorf("ring needs name and pageRegion")
	}

	laf := overlay.NewLookAndFeel()
	if pad := rj.Get("padding"); pad.Exists() {
		laf = overlay.PaddedLookAndFeel(int(pad.Int()))
	}
	if col := rj.Get("color"); col.Exists() {
		c, err := utils.ParseARGB(col.String())
		if err != nil {
			return nil, fmt.Errorf("ring %s: %w", name, err)
		}
		laf = overlay.CustomLookAndFeel(
			laf.Padding,
			compositor.ARGB(c),
			laf.Thickness,
			int(rj.Get("maxDimension").Int()),
		)
	}
	if th := rj.Get("thickness"); th.Exists() {
		laf.Thickness = int(th.Int())
	}
	if max := rj.Get("maxDimension"); max.Exists() {
		laf.MaxDimension = int(max.Int())
	}

	id, err := version.ParseMeta(name, laf, tourVersion(rj))
	if err != nil {
		return nil, err
	}
	return overlay.NewRing(id, pageRegion, rj.Get("slideRegion").String()), nil
}

func tourVersion(j gjson.Result) string {
	if v := j.Get("version"); v.Exists() {
		return v.String()
	}
	return "1"
}
