package sections

import (
	"github.com/shopspring/decimal"

	"bankdash/internal/dataset"
)

var cardsFields = []string{
	dataset.FieldCardID,
	dataset.FieldCreditCardBalance,
	dataset.FieldCreditLimit,
	dataset.FieldMinimumPaymentDue,
	dataset.FieldRewardsPoints,
	dataset.FieldLastCreditCardPaymentDate,
}

// Cards summarizes credit cards; monthly tables group by the month of the
// last card payment and skip rows without one.
func Cards(set dataset.RecordSet) Summary {
	cards := distinct{}
	balance, minDue, rewards := decimal.Zero, decimal.Zero, decimal.Zero
	minDueByMonth := newGroups(1)
	balanceLimitByMonth := newGroups(2)

	for _, r := range set.Records() {
		cards.add(r.CardID)
		balance = balance.Add(sum(r.CreditCardBalance))
		minDue = minDue.Add(sum(r.MinimumPaymentDue))
		rewards = rewards.Add(sum(r.RewardsPoints))

		month := r.PaymentMonth()
		minDueByMonth.add(month, sum(r.MinimumPaymentDue))
		balanceLimitByMonth.add(month, sum(r.CreditCardBalance), sum(r.CreditLimit))
	}

	return Summary{
		KPIs: []KPI{
			{Name: "card_count", Label: "Count of Credit Cards", Value: cards.len(), Format: FormatCount},
			{Name: "total_card_balance", Label: "Total Credit Card Balance", Value: balance, Format: FormatAmount},
			{Name: "total_minimum_payment_due", Label: "Total Minimum Payment Due", Value: minDue, Format: FormatAmount},
			{Name: "total_rewards_points", Label: "Total Rewards Points", Value: rewards, Format: FormatCount},
		},
		Tables: []Table{
			{Name: "monthly_minimum_payment", Title: "Minimum Payment Due by Month", Chart: "bar", KeyLabel: "Payment Month", Columns: []string{"Minimum Payment Due"}, Rows: byCalendar(minDueByMonth.rows())},
			{Name: "monthly_balance_limit", Title: "Credit Card Balance vs Credit Limit by Month", Chart: "line", KeyLabel: "Payment Month", Columns: []string{"Credit Card Balance", "Credit Limit"}, Rows: byCalendar(balanceLimitByMonth.rows())},
		},
	}
}
