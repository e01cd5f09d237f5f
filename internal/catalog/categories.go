package catalog

// PageSize is the fixed number of ideas per catalog page.
const PageSize = 10

// AllCategories is the sentinel that bypasses category filtering.
const AllCategories = "all"

// categoryNames maps the legacy short category codes used in catalog links
// to their full display names. Unknown values pass through verbatim.
var categoryNames = map[string]string{
	"Home":  "Home & Kitchen",
	"IT":    "IT & Software",
	"Sport": "Sport Utilities",
}

// ExpandCategory resolves a category query value to its display name.
func ExpandCategory(code string) string {
	if name, ok := categoryNames[code]; ok {
		return name
	}
	return code
}

// ClampPage normalizes a 1-indexed page number. Values below 1 would
// produce a negative skip offset, so they clamp to the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the skip offset for a 1-indexed page.
func Offset(page int) int {
	return (ClampPage(page) - 1) * PageSize
}

// PageCount returns ceil(total / PageSize).
func PageCount(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}
