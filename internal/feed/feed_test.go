package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:g="http://base.google.com/ns/1.0">
  <title>Notino HU</title>
  <entry>
    <title>Dior Sauvage / 100 ml</title>
    <brand>Dior</brand>
    <description>Friss, fűszeres illat.</description>
    <image_link>https://cdn.example.test/sauvage.jpg</image_link>
    <link>https://www.notino.hu/dior/sauvage/</link>
    <price>38990.00 HUF</price>
    <gender>Male</gender>
    <product_type>Parfémy &gt; Pánské vůně &gt; Toaletní vody</product_type>
    <google_product_category_name>Health &amp; Beauty &gt; Personal Care &gt; Cosmetics &gt; Perfume &amp; Cologne</google_product_category_name>
    <product_highlight>Az illat fajtája: fás, fűszeres, friss Intenzitás: erős</product_highlight>
  </entry>
  <entry>
    <title>Levendula szappan</title>
    <brand>Soapy</brand>
    <price>990 HUF</price>
    <product_type>Kosmetika &gt; Mýdla</product_type>
    <google_product_category_name>Perfume &amp; Cologne</google_product_category_name>
  </entry>
  <entry>
    <title>Hajkefe</title>
    <brand>Brushy</brand>
    <google_product_category_name>Hair Care</google_product_category_name>
  </entry>
  <entry>
    <title>Mystery Scent</title>
    <google_product_category_name>Perfume &amp; Cologne</google_product_category_name>
  </entry>
</feed>`

func TestParse(t *testing.T) {
	items, skipped, err := Parse(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, items, 2)

	sauvage := items[0]
	assert.Equal(t, "Dior Sauvage - 100 ml", sauvage.Name)
	assert.Equal(t, "Dior", sauvage.Brand)
	assert.Equal(t, "male", sauvage.Gender)
	assert.Equal(t, "Eau de Toilette", sauvage.Type)
	require.NotNil(t, sauvage.Price)
	assert.InDelta(t, 38990.0, *sauvage.Price, 0.001)
	assert.Equal(t, []string{"fás", "fűszeres", "friss"}, sauvage.Notes)
	assert.Equal(t, "https://www.notino.hu/dior/sauvage/", sauvage.Link)

	mystery := items[1]
	assert.Equal(t, "Unknown Brand", mystery.Brand)
	assert.Equal(t, "No description available", mystery.Description)
	assert.Equal(t, "unisex", mystery.Gender)
	assert.Equal(t, UnknownType, mystery.Type)
	assert.Nil(t, mystery.Price)
	assert.Empty(t, mystery.Notes)
}

func TestParse_Malformed(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`<feed><entry><title>x</entry></feed>`))
	assert.Error(t, err)
}

func TestPerfumeType(t *testing.T) {
	assert.Equal(t, "Eau de Parfum", PerfumeType("Parfémy > Dámské vůně > Parfémované vody"))
	assert.Equal(t, "Eau de Cologne", PerfumeType("Kolínské vody"))
	assert.Equal(t, "Eau de Toilette", PerfumeType("Toaletní vody"))
	assert.Equal(t, UnknownType, PerfumeType("Parfémy > Sady"))
	assert.Equal(t, UnknownType, PerfumeType(""))
}

func TestExtractNotes(t *testing.T) {
	tests := []struct {
		name      string
		highlight string
		want      []string
	}{
		{"no marker", "Csomagolás: doboz", nil},
		{"simple", "Az illat fajtája: virágos, gyümölcsös", []string{"virágos", "gyümölcsös"}},
		{"cut at label", "Az illat fajtája: édes, keleti Fenntarthatóság: vegán Csomagolás: doboz", []string{"édes", "keleti"}},
		{"last marker wins", "Az illat fajtája: régi Az illat fajtája: új, friss", []string{"új", "friss"}},
		{"blank and duplicate entries dropped", "Az illat fajtája: fás, , fás ,pézsmás", []string{"fás", "pézsmás"}},
		{"refill label", "Az illat fajtája: citrusos újratölthető kivitel", []string{"citrusos"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNotes(tt.highlight))
		})
	}
}

func TestParsePrice(t *testing.T) {
	p := ParsePrice("12990.50 HUF")
	require.NotNil(t, p)
	assert.InDelta(t, 12990.5, *p, 0.0001)

	assert.Nil(t, ParsePrice(""))
	assert.Nil(t, ParsePrice("HUF 100"))
	assert.Nil(t, ParsePrice("-5 HUF"))

	for _, raw := range []string{"NaN HUF", "Inf HUF", "+Inf", "-Inf HUF", "nan"} {
		assert.Nil(t, ParsePrice(raw), raw)
	}
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "female", NormalizeGender(" FEMALE "))
	assert.Equal(t, "unisex", NormalizeGender(""))
	assert.Equal(t, "unisex", NormalizeGender("kids"))
}
