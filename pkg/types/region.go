package types

type Region string

const (
	RegionNorthAmerica Region = "north_america"
	RegionUKEurope     Region = "uk_europe"
	RegionMiddleEast   Region = "middle_east_arabic"
	RegionAsia         Region = "asia"
	RegionGlobal       Region = "global"
)

// regionBouquets maps a region to the activation panel's bouquet identifier
// for that content bundle.
var regionBouquets = map[Region]string{
	RegionNorthAmerica: "bouquet_na",
	RegionUKEurope:     "bouquet_eu",
	RegionMiddleEast:   "bouquet_me",
	RegionAsia:         "bouquet_asia",
	RegionGlobal:       "bouquet_global",
}

var regionDisplayNames = map[Region]string{
	RegionNorthAmerica: "United States (North America)",
	RegionUKEurope:     "Europe / UK",
	RegionMiddleEast:   "Middle East / Arabic",
	RegionAsia:         "Asia",
	RegionGlobal:       "Global",
}

var regionEmojis = map[Region]string{
	RegionNorthAmerica: "🇺🇸",
	RegionUKEurope:     "🇪🇺",
	RegionMiddleEast:   "🇸🇦",
	RegionAsia:         "🌏",
	RegionGlobal:       "🌐",
}

func (r Region) Valid() bool {
	_, ok := regionBouquets[r]
	return ok
}

// Bouquet returns the panel bundle identifier for the region, with ok=false
// for unknown regions.
func (r Region) Bouquet() (string, bool) {
	b, ok := regionBouquets[r]
	return b, ok
}

func (r Region) DisplayName() string {
	if n, ok := regionDisplayNames[r]; ok {
		return n
	}
	return string(r)
}

func (r Region) Emoji() string {
	if e, ok := regionEmojis[r]; ok {
		return e
	}
	return "🌍"
}
