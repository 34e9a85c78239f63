// Package feed reads a Google Shopping product feed and turns its perfume
// entries into catalog items.
package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	perfumeCategory = "Perfume & Cologne"
	soapMarker      = "Mýdla"
	notesMarker     = "Az illat fajtája:"

	UnknownType   = "Unknown Type"
	unknownName   = "Unknown Title"
	unknownBrand  = "Unknown Brand"
	noDescription = "No description available"
)

// Sections that follow the scent list inside product_highlight.
var trailingLabels = []string{
	"Intenzitás:",
	"Market type:",
	"Fenntarthatóság:",
	"Csomagolás:",
	"Konzisztencia:",
	"újratölthető kivitel",
	"Hatóanyag:",
	"Hajkiegészítő típusa:",
	"Bőrtípus:",
}

var perfumeTypes = []struct {
	marker string
	name   string
}{
	{"Toaletní vody", "Eau de Toilette"},
	{"Parfémované vody", "Eau de Parfum"},
	{"Kolínské vody", "Eau de Cologne"},
}

// Entry is one <entry> element as it appears in the feed.
type Entry struct {
	Title            *string `xml:"title"`
	Brand            *string `xml:"brand"`
	Description      *string `xml:"description"`
	ImageLink        *string `xml:"image_link"`
	Link             *string `xml:"link"`
	Price            *string `xml:"price"`
	Gender           *string `xml:"gender"`
	ProductType      *string `xml:"product_type"`
	CategoryName     *string `xml:"google_product_category_name"`
	ProductHighlight *string `xml:"product_highlight"`
}

// Item is a feed entry accepted for import.
type Item struct {
	Name        string
	Brand       string
	Description string
	ImageURL    string
	Link        string
	Price       *float64
	Gender      string
	Type        string
	Notes       []string
}

// Parse streams entries out of r and returns the perfume items plus the number
// of entries that were skipped.
func Parse(r io.Reader) ([]Item, int, error) {
	dec := xml.NewDecoder(r)

	var (
		items   []Item
		skipped int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read feed: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var e Entry
		if err := dec.DecodeElement(&e, &start); err != nil {
			return nil, 0, fmt.Errorf("decode entry %d: %w", len(items)+skipped+1, err)
		}

		item, ok := Normalize(e)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

// Normalize applies the perfume filters to e. It returns false for entries
// outside the perfume category and for soaps.
func Normalize(e Entry) (Item, bool) {
	category := text(e.CategoryName, "")
	if !strings.Contains(category, perfumeCategory) {
		return Item{}, false
	}
	productType := text(e.ProductType, "")
	if strings.Contains(productType, soapMarker) {
		return Item{}, false
	}

	return Item{
		Name:        cleanName(text(e.Title, unknownName)),
		Brand:       cleanName(text(e.Brand, unknownBrand)),
		Description: cleanName(text(e.Description, noDescription)),
		ImageURL:    text(e.ImageLink, ""),
		Link:        text(e.Link, ""),
		Price:       ParsePrice(text(e.Price, "")),
		Gender:      NormalizeGender(text(e.Gender, "")),
		Type:        PerfumeType(productType),
		Notes:       ExtractNotes(text(e.ProductHighlight, "")),
	}, true
}

// PerfumeType maps the feed's product_type path onto a concentration name.
func PerfumeType(productType string) string {
	for _, t := range perfumeTypes {
		if strings.Contains(productType, t.marker) {
			return t.name
		}
	}
	return UnknownType
}

// ExtractNotes returns the comma separated scent notes listed after the
// "Az illat fajtája:" marker, cut at the first trailing section label.
func ExtractNotes(highlight string) []string {
	i := strings.LastIndex(highlight, notesMarker)
	if i < 0 {
		return nil
	}
	section := highlight[i+len(notesMarker):]
	for _, label := range trailingLabels {
		if j := strings.Index(section, label); j >= 0 {
			section = section[:j]
		}
	}

	var notes []string
	seen := map[string]bool{}
	for _, n := range strings.Split(section, ",") {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		notes = append(notes, n)
	}
	return notes
}

// ParsePrice reads the leading number of a feed price such as "12990.00 HUF".
func ParsePrice(raw string) *float64 {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// NormalizeGender lowercases the feed value; anything outside the catalog's
// genders becomes unisex.
func NormalizeGender(raw string) string {
	switch g := strings.ToLower(strings.TrimSpace(raw)); g {
	case "male", "female", "unisex":
		return g
	default:
		return "unisex"
	}
}

func cleanName(s string) string {
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, "/", "-")
	return strings.TrimSpace(s)
}

func text(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.TrimSpace(*p)
}
