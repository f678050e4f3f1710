package core

// Category is a fear/greed bucket of a sentiment score
type Category string

const (
	CategoryExtremeFear  Category = "Extreme Fear"
	CategoryFear         Category = "Fear"
	CategoryNeutral      Category = "Neutral"
	CategoryGreed        Category = "Greed"
	CategoryExtremeGreed Category = "Extreme Greed"
)

// Categories lists all buckets from most fearful to most greedy
var Categories = []Category{
	CategoryExtremeFear,
	CategoryFear,
	CategoryNeutral,
	CategoryGreed,
	CategoryExtremeGreed,
}

// categoryBands are inclusive upper bounds; anything above the last band is Extreme Greed
var categoryBands = []struct {
	upper    float64
	category Category
}{
	{25, CategoryExtremeFear},
	{45, CategoryFear},
	{55, CategoryNeutral},
	{75, CategoryGreed},
}

// Categorize maps a sentiment score to its category
func Categorize(score float64) Category {
	for _, b := range categoryBands {
		if score <= b.upper {
			return b.category
		}
	}
	return CategoryExtremeGreed
}

// IsFear reports whether c is one of the fear buckets
func (c Category) IsFear() bool {
	return c == CategoryFear || c == CategoryExtremeFear
}

// IsGreed reports whether c is one of the greed buckets
func (c Category) IsGreed() bool {
	return c == CategoryGreed || c == CategoryExtremeGreed
}
