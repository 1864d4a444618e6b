package packaging

import "strings"

// ProductClass is the decision-table branch selected for a product category.
type ProductClass int

const (
	ClassGeneric ProductClass = iota
	ClassElectronics
	ClassFood
	ClassCosmetics
	ClassClothing
	ClassBooks
)

// String returns the class name used in rationale text.
func (c ProductClass) String() string {
	switch c {
	case ClassElectronics:
		return "electronics"
	case ClassFood:
		return "food"
	case ClassCosmetics:
		return "cosmetics"
	case ClassClothing:
		return "clothing"
	case ClassBooks:
		return "books"
	default:
		return "general merchandise"
	}
}

// classPatterns are checked in order; the first branch with a matching
// substring wins. The substring-match semantics are load-bearing business
// logic carried over from the product's intake behavior.
var classPatterns = []struct {
	class    ProductClass
	patterns []string
}{
	{ClassElectronics, []string{"electronic", "device", "tech"}},
	{ClassFood, []string{"food", "beverage", "snack"}},
	{ClassCosmetics, []string{"cosmetic", "beauty", "personal care"}},
	{ClassClothing, []string{"clothing", "textile", "apparel"}},
	{ClassBooks, []string{"book", "media"}},
}

// Classify maps a free-text product category to its decision-table branch
// via case-insensitive substring matching. Unmatched input is ClassGeneric.
func Classify(productCategory string) ProductClass {
	category := strings.ToLower(strings.TrimSpace(productCategory))
	for _, entry := range classPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(category, pattern) {
				return entry.class
			}
		}
	}
	return ClassGeneric
}
