package sections

import (
	"strconv"

	"github.com/shopspring/decimal"

	"bankdash/internal/dataset"
)

var accountsFields = []string{
	dataset.FieldAccountID,
	dataset.FieldLoanID,
	dataset.FieldLoanAmount,
	dataset.FieldAccountBalance,
	dataset.FieldInterestRate,
	dataset.FieldApprovalRejectionDate,
	dataset.FieldLoanTerm,
}

// Accounts summarizes accounts and loans. Loans repeat across transaction
// rows in the source table, so the per-year count keeps one row per Loan_ID:
// the first one carrying a valid approval date.
func Accounts(set dataset.RecordSet) Summary {
	accounts := distinct{}
	loans := distinct{}
	var interest accumulator
	totalLoan, totalBalance := decimal.Zero, decimal.Zero
	terms := newGroups(1)
	perYear := newGroups(1)

	for _, r := range set.Records() {
		accounts.add(r.AccountID)
		interest.add(r.InterestRate)
		totalLoan = totalLoan.Add(sum(r.LoanAmount))
		totalBalance = totalBalance.Add(sum(r.AccountBalance))
		if r.LoanTerm.Valid {
			terms.count(strconv.Itoa(r.LoanTerm.Int))
		}

		year, ok := r.LoanYear()
		if !ok || r.LoanID == "" {
			continue
		}
		if _, dup := loans[r.LoanID]; dup {
			continue
		}
		loans.add(r.LoanID)
		perYear.count(strconv.Itoa(year))
	}

	return Summary{
		KPIs: []KPI{
			{Name: "account_count", Label: "Count of Accounts", Value: accounts.len(), Format: FormatCount},
			{Name: "total_loan_amount", Label: "Total Loan Amount", Value: totalLoan, Format: FormatAmount},
			{Name: "total_account_balance", Label: "Total Account Balance", Value: totalBalance, Format: FormatAmount},
			{Name: "mean_interest_rate", Label: "Avg Interest Rate", Value: interest.mean(), Format: FormatPercent},
		},
		Tables: []Table{
			{Name: "loans_per_year", Title: "Number of Loans by Year", Chart: "line", KeyLabel: "Year", Columns: []string{"Loans"}, Rows: byNumericKey(perYear.rows())},
			{Name: "loan_terms", Title: "Loan Term Distribution", Chart: "bar", KeyLabel: "Loan Term", Columns: []string{"Count"}, Rows: byNumericKey(terms.rows())},
		},
	}
}
