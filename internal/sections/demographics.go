package sections

import (
	"github.com/shopspring/decimal"

	"bankdash/internal/core"
	"bankdash/internal/dataset"
)

var demographicsFields = []string{
	dataset.FieldCustomerID,
	dataset.FieldGender,
	dataset.FieldAge,
	dataset.FieldCity,
}

// Demographics summarizes customers: headcount, age and gender mix, cities.
func Demographics(set dataset.RecordSet) Summary {
	customers := distinct{}
	var age accumulator
	var male, female, other int
	genders := newGroups(1)
	cities := newGroups(1)
	ageCounts := make(map[string]int64, len(core.AgeGroups))

	for _, r := range set.Records() {
		customers.add(r.CustomerID)
		age.addInt(r.Age)
		switch r.Gender {
		case "Male":
			male++
		case "Female":
			female++
		case "Other":
			other++
		}
		genders.count(r.Gender)
		cities.count(r.City)
		if g, ok := r.AgeGroup(); ok {
			ageCounts[g]++
		}
	}

	ageRows := make([]Row, 0, len(core.AgeGroups))
	for _, g := range core.AgeGroups {
		ageRows = append(ageRows, Row{Key: g, Values: []decimal.Decimal{decimal.NewFromInt(ageCounts[g])}})
	}

	return Summary{
		KPIs: []KPI{
			{Name: "customer_count", Label: "Count of Customers", Value: customers.len(), Format: FormatCount},
			{Name: "mean_age", Label: "Avg of Customers Age", Value: age.mean(), Format: FormatDecimal},
			{Name: "male_count", Label: "Male Customers Count", Value: count(male), Format: FormatCount},
			{Name: "female_count", Label: "Female Customers Count", Value: count(female), Format: FormatCount},
			{Name: "other_count", Label: "Other Customers Count", Value: count(other), Format: FormatCount},
		},
		Tables: []Table{
			{Name: "gender_distribution", Title: "Gender Distribution", Chart: "pie", KeyLabel: "Gender", Columns: []string{"Count"}, Rows: byValueDesc(genders.rows())},
			{Name: "age_groups", Title: "Age Group wise Number of Customers", Chart: "bar", KeyLabel: "Age Group", Columns: []string{"Count of Customers"}, Rows: ageRows},
			{Name: "city_counts", Title: "Count of Customers by City", Chart: "hbar", KeyLabel: "City", Columns: []string{"Count"}, Rows: byValueDesc(cities.rows())},
		},
	}
}
