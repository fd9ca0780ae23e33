package sections

import "bankdash/internal/dataset"

var transactionsFields = []string{
	dataset.FieldTransactionID,
	dataset.FieldTransactionAmount,
	dataset.FieldTransactionType,
	dataset.FieldTransactionDate,
}

// Transactions summarizes transaction volume by month and type.
func Transactions(set dataset.RecordSet) Summary {
	ids := distinct{}
	var amount accumulator
	monthly := newGroups(1)
	types := newGroups(1)

	for _, r := range set.Records() {
		ids.add(r.TransactionID)
		amount.add(r.TransactionAmount)
		monthly.count(r.Month())
		types.count(r.TransactionType)
	}

	return Summary{
		KPIs: []KPI{
			{Name: "total_transaction_amount", Label: "Total Transaction Amount", Value: amount.total, Format: FormatAmount},
			{Name: "mean_transaction_amount", Label: "Avg Transaction Amount", Value: amount.mean(), Format: FormatAmount},
			{Name: "transaction_count", Label: "Count of Transactions", Value: ids.len(), Format: FormatCount},
		},
		Tables: []Table{
			{Name: "monthly_transactions", Title: "Monthly Transactions", Chart: "line", KeyLabel: "Month", Columns: []string{"Transactions"}, Rows: byCalendar(monthly.rows())},
			{Name: "transaction_types", Title: "Transactions by Type", Chart: "pie", KeyLabel: "Transaction Type", Columns: []string{"Count"}, Rows: byValueDesc(types.rows())},
		},
	}
}
