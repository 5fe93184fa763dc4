package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCassette = `
<div class="cassette">
	<div class="cassetteMain__carInfoContainer"><p>トヨタ</p></div>
	<h3 class="cassetteMain__title"><a href="/usedcar/detail/AU001/index.html">プリウス Sツーリングセレクション</a></h3>
	<div class="specList__detailBox">
		<dt class="specList__title">年式</dt>
		<dd class="specList__data"><span class="specList__emphasisData">2019(R1)</span></dd>
	</div>
	<div class="totalPrice">
		<span class="totalPrice__mainPriceNum">48</span><span class="totalPrice__subPriceNum">.2</span>万円
	</div>
	<ul>
		<li class="carBodyInfoList__item">走行距離 3.2万km</li>
		<li class="carBodyInfoList__item">レッド</li>
	</ul>
</div>`

func page(cassettes ...string) string {
	return "<html><body>" + strings.Join(cassettes, "\n") + "</body></html>"
}

func TestExtract_FullCassette(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	cars, err := e.Extract(strings.NewReader(page(fullCassette)))
	require.NoError(t, err)
	require.Len(t, cars, 1)

	car := cars[0]
	assert.Equal(t, "Toyota", car.Brand)
	assert.Equal(t, "プリウス", car.Model, "model should be the first title token")
	assert.Equal(t, 2019, car.Year)
	assert.Equal(t, 482000, car.Price)
	assert.Equal(t, "Red", car.Color)
	assert.Equal(t, "https://www.carsensor.net/usedcar/detail/AU001/index.html", car.Link)
}

func TestExtract_FragmentIsolation(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	// The middle cassette has no title block and must be skipped without
	// aborting the page.
	malformed := `<div class="cassette"><p>ホンダ</p><div class="totalPrice"><span class="totalPrice__mainPriceNum">100</span></div></div>`
	other := strings.ReplaceAll(fullCassette, "AU001", "AU002")

	cars, err := e.Extract(strings.NewReader(page(fullCassette, malformed, other)))
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "https://www.carsensor.net/usedcar/detail/AU001/index.html", cars[0].Link)
	assert.Equal(t, "https://www.carsensor.net/usedcar/detail/AU002/index.html", cars[1].Link)
}

func TestExtract_MissingLinkSkipsListing(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	noLink := `<div class="cassette"><h3 class="cassetteMain__title">プリウス</h3></div>`
	cars, err := e.Extract(strings.NewReader(page(noLink)))
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestExtract_Defaults(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	// Only title and link are present; every other field falls back.
	bare := `<div class="cassette"><h3 class="cassetteMain__title"><a href="/usedcar/detail/AU003/index.html">フィット</a></h3></div>`
	cars, err := e.Extract(strings.NewReader(page(bare)))
	require.NoError(t, err)
	require.Len(t, cars, 1)

	car := cars[0]
	assert.Equal(t, "Honda", car.Brand)
	assert.Equal(t, "フィット", car.Model)
	assert.Equal(t, 2020, car.Year)
	assert.Equal(t, 1500000, car.Price)
	assert.Equal(t, "Silver", car.Color, "unknown color must fall back, never be empty")
}

func TestExtract_UnknownColorFallsBack(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	c := strings.Replace(fullCassette, "レッド", "マルーン", 1)
	cars, err := e.Extract(strings.NewReader(page(c)))
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Silver", cars[0].Color)
}

func TestExtract_BrandFallbackToInfoContainer(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	// Brand text is not in the known token set; the first paragraph of
	// the info container is used and passed through unchanged.
	c := strings.Replace(fullCassette, "トヨタ", "ＢＭＷ", 1)
	cars, err := e.Extract(strings.NewReader(page(c)))
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "ＢＭＷ", cars[0].Brand)
}

func TestExtract_AbsoluteLinkKept(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	c := strings.Replace(fullCassette, `href="/usedcar/detail/AU001/index.html"`,
		`href="https://other.example.com/detail/9"`, 1)
	cars, err := e.Extract(strings.NewReader(page(c)))
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "https://other.example.com/detail/9", cars[0].Link)
}

func TestParseManYen(t *testing.T) {
	price, err := ParseManYen("48", "2")
	require.NoError(t, err)
	assert.Equal(t, 482000, price)

	price, err = ParseManYen("100", "")
	require.NoError(t, err)
	assert.Equal(t, 1000000, price)

	price, err = ParseManYen("128", "9")
	require.NoError(t, err)
	assert.Equal(t, 1289000, price)

	_, err = ParseManYen("応談", "")
	assert.Error(t, err)
}

func TestNormalizeBrand(t *testing.T) {
	assert.Equal(t, "Toyota", NormalizeBrand("トヨタ"))
	assert.Equal(t, "Lexus", NormalizeBrand("レクサス"))
	assert.Equal(t, "BMW", NormalizeBrand("BMW"), "unmapped brands pass through")
}

func TestExtract_YearFromLabeledSpec(t *testing.T) {
	e := NewExtractor("https://www.carsensor.net")

	// An unlabeled spec box with digits must not be mistaken for the year.
	c := strings.Replace(fullCassette,
		`<div class="specList__detailBox">`,
		`<div class="specList__detailBox">
			<dt class="specList__title">走行距離</dt>
			<dd class="specList__data"><span class="specList__emphasisData">3200</span></dd>
		</div>
		<div class="specList__detailBox">`, 1)
	cars, err := e.Extract(strings.NewReader(page(c)))
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, 2019, cars[0].Year)
}
