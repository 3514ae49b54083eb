package models

// Budget categories, in display order.
const (
	CategoryFlights    = "flights"
	CategoryLodging    = "lodging"
	CategoryCarRental  = "car_rental"
	CategoryFuel       = "fuel"
	CategoryFood       = "food"
	CategoryActivities = "activities"
	CategoryShopping   = "shopping"
	CategoryMisc       = "misc"
)

var BudgetCategories = []string{
	CategoryFlights,
	CategoryLodging,
	CategoryCarRental,
	CategoryFuel,
	CategoryFood,
	CategoryActivities,
	CategoryShopping,
	CategoryMisc,
}

// IsBudgetCategory reports whether c is one of BudgetCategories.
func IsBudgetCategory(c string) bool {
	for _, known := range BudgetCategories {
		if known == c {
			return true
		}
	}
	return false
}

type Expense struct {
	Date        string  `json:"date" bson:"date"`
	Category    string  `json:"category" bson:"category"`
	Person      string  `json:"person" bson:"person"`
	Amount      float64 `json:"amount" bson:"amount"`
	Description string  `json:"description" bson:"description"`
}

type Budget struct {
	Planned  map[string]float64 `json:"planned" bson:"planned"`
	Expenses []Expense          `json:"expenses" bson:"expenses"`
}

// CategorySummary compares plan and spend for one category.
type CategorySummary struct {
	Category  string  `json:"category"`
	Planned   float64 `json:"planned"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type BudgetSummary struct {
	Categories   []CategorySummary  `json:"categories"`
	ByPerson     map[string]float64 `json:"by_person"`
	TotalPlanned float64            `json:"total_planned"`
	TotalSpent   float64            `json:"total_spent"`
}

// Summarize totals the budget per category and per person. Expenses outside the
// category enum are counted under misc.
func (b Budget) Summarize() BudgetSummary {
	spent := make(map[string]float64, len(BudgetCategories))
	byPerson := make(map[string]float64)
	var total float64
	for _, e := range b.Expenses {
		cat := e.Category
		if !IsBudgetCategory(cat) {
			cat = CategoryMisc
		}
		spent[cat] += e.Amount
		if e.Person != "" {
			byPerson[e.Person] += e.Amount
		}
		total += e.Amount
	}

	sum := BudgetSummary{ByPerson: byPerson, TotalSpent: total}
	for _, cat := range BudgetCategories {
		planned := b.Planned[cat]
		sum.TotalPlanned += planned
		sum.Categories = append(sum.Categories, CategorySummary{
			Category:  cat,
			Planned:   planned,
			Spent:     spent[cat],
			Remaining: planned - spent[cat],
		})
	}
	return sum
}
