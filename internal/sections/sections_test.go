package sections

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdash/internal/core"
	"bankdash/internal/dataset"
	"bankdash/internal/filter"
)

func age(n int) core.NullInt { return core.NullInt{Int: n, Valid: true} }

func num(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func date(y int, m time.Month, d int) core.NullDate {
	return core.NullDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func requireKPI(t *testing.T, s Summary, name, want string) {
	t.Helper()
	k, ok := s.KPI(name)
	require.True(t, ok, "kpi %s", name)
	assert.True(t, k.Value.Equal(decimal.RequireFromString(want)), "kpi %s = %s, want %s", name, k.Value, want)
}

func requireRows(t *testing.T, s Summary, table string, want map[string]string, order []string) {
	t.Helper()
	tbl, ok := s.Table(table)
	require.True(t, ok, "table %s", table)
	assert.Equal(t, order, tbl.Keys(), "table %s order", table)
	for k, v := range want {
		got, ok := tbl.Lookup(k)
		require.True(t, ok, "table %s key %s", table, k)
		assert.True(t, got.Equal(decimal.RequireFromString(v)), "table %s key %s = %s, want %s", table, k, got, v)
	}
}

var demographicsCols = []string{dataset.FieldCustomerID, dataset.FieldGender, dataset.FieldAge, dataset.FieldCity}

func TestDemographicsScenario(t *testing.T) {
	set := dataset.NewRecordSet(demographicsCols, []dataset.Record{
		{CustomerID: "C1", Gender: "Male", Age: age(25), City: "Boston"},
		{CustomerID: "C2", Gender: "Female", Age: age(45), City: "Denver"},
		{CustomerID: "C3", Gender: "Male", Age: age(70), City: "Boston"},
	})

	s, err := Compute(core.SectionDemographics, set)
	require.NoError(t, err)
	assert.Equal(t, "Customer Demographics & Overview", s.Title)
	assert.Equal(t, 3, s.Records)

	requireKPI(t, s, "customer_count", "3")
	meanAge, _ := s.KPI("mean_age")
	assert.Equal(t, "46.67", meanAge.Value.Round(2).String())
	requireKPI(t, s, "male_count", "2")
	requireKPI(t, s, "female_count", "1")
	requireKPI(t, s, "other_count", "0")

	requireRows(t, s, "age_groups",
		map[string]string{"18-30": "1", "31-40": "0", "41-50": "1", "51-60": "0", "61-70": "0"},
		core.AgeGroups)
	requireRows(t, s, "gender_distribution",
		map[string]string{"Male": "2", "Female": "1"},
		[]string{"Male", "Female"})
	requireRows(t, s, "city_counts",
		map[string]string{"Boston": "2", "Denver": "1"},
		[]string{"Boston", "Denver"})
}

func TestDemographicsUnmatchedGenderExcluded(t *testing.T) {
	set := dataset.NewRecordSet(demographicsCols, []dataset.Record{
		{CustomerID: "C1", Gender: "Nonbinary", Age: age(30)},
		{CustomerID: "C1", Gender: "Other", Age: age(40)},
	})
	s, err := Compute(core.SectionDemographics, set)
	require.NoError(t, err)
	requireKPI(t, s, "customer_count", "1")
	requireKPI(t, s, "male_count", "0")
	requireKPI(t, s, "female_count", "0")
	requireKPI(t, s, "other_count", "1")
}

var accountsCols = []string{
	dataset.FieldAccountID, dataset.FieldLoanID, dataset.FieldLoanAmount, dataset.FieldAccountBalance,
	dataset.FieldInterestRate, dataset.FieldApprovalRejectionDate, dataset.FieldLoanTerm,
}

func TestLoansPerYearDeduplicates(t *testing.T) {
	set := dataset.NewRecordSet(accountsCols, []dataset.Record{
		{AccountID: "A1", LoanID: "L1", ApprovalRejectionDate: date(2022, time.March, 1), LoanAmount: num("100"), LoanTerm: age(36)},
		{AccountID: "A1", LoanID: "L1", ApprovalRejectionDate: date(2022, time.March, 1), LoanAmount: num("100"), LoanTerm: age(36)},
		{AccountID: "A2", LoanID: "L2", ApprovalRejectionDate: date(2023, time.June, 9), LoanAmount: num("250.5"), LoanTerm: age(12)},
		{AccountID: "A3", LoanID: "L3", LoanAmount: num("10"), LoanTerm: age(60)},
	})

	s, err := Compute(core.SectionAccounts, set)
	require.NoError(t, err)
	requireRows(t, s, "loans_per_year", map[string]string{"2022": "1", "2023": "1"}, []string{"2022", "2023"})
	requireRows(t, s, "loan_terms", map[string]string{"12": "1", "36": "2", "60": "1"}, []string{"12", "36", "60"})
	requireKPI(t, s, "account_count", "3")
	requireKPI(t, s, "total_loan_amount", "460.5")
}

func TestLoansPerYearUsesFirstDatedOccurrence(t *testing.T) {
	set := dataset.NewRecordSet(accountsCols, []dataset.Record{
		{LoanID: "L1"},
		{LoanID: "L1", ApprovalRejectionDate: date(2021, time.May, 2)},
		{LoanID: "L1", ApprovalRejectionDate: date(2024, time.May, 2)},
	})
	s, err := Compute(core.SectionAccounts, set)
	require.NoError(t, err)
	requireRows(t, s, "loans_per_year", map[string]string{"2021": "1"}, []string{"2021"})
}

func TestAccountsKPIs(t *testing.T) {
	set := dataset.NewRecordSet(accountsCols, []dataset.Record{
		{AccountID: "A1", AccountBalance: num("1000.10"), InterestRate: num("4")},
		{AccountID: "A2", AccountBalance: num("20"), InterestRate: num("6")},
		{AccountID: "A2"},
	})
	s, err := Compute(core.SectionAccounts, set)
	require.NoError(t, err)
	requireKPI(t, s, "account_count", "2")
	requireKPI(t, s, "total_account_balance", "1020.10")
	requireKPI(t, s, "mean_interest_rate", "5")
	requireKPI(t, s, "total_loan_amount", "0")
}

var transactionCols = []string{
	dataset.FieldTransactionID, dataset.FieldTransactionAmount, dataset.FieldTransactionType, dataset.FieldTransactionDate,
}

func TestMonthlyTransactionsCalendarOrder(t *testing.T) {
	set := dataset.NewRecordSet(transactionCols, []dataset.Record{
		{TransactionID: "T1", TransactionDate: date(2023, time.March, 3), TransactionAmount: num("10"), TransactionType: "Deposit"},
		{TransactionID: "T2", TransactionDate: date(2023, time.January, 9), TransactionAmount: num("20"), TransactionType: "Withdrawal"},
		{TransactionID: "T3", TransactionDate: date(2023, time.December, 30), TransactionAmount: num("30"), TransactionType: "Deposit"},
		{TransactionID: "T3", TransactionAmount: num("40"), TransactionType: "Transfer"},
	})

	s, err := Compute(core.SectionTransactions, set)
	require.NoError(t, err)
	requireRows(t, s, "monthly_transactions",
		map[string]string{"January": "1", "March": "1", "December": "1"},
		[]string{"January", "March", "December"})
	requireRows(t, s, "transaction_types",
		map[string]string{"Deposit": "2", "Transfer": "1", "Withdrawal": "1"},
		[]string{"Deposit", "Transfer", "Withdrawal"})
	requireKPI(t, s, "total_transaction_amount", "100")
	requireKPI(t, s, "mean_transaction_amount", "25")
	requireKPI(t, s, "transaction_count", "3")
}

var cardCols = []string{
	dataset.FieldCardID, dataset.FieldCreditCardBalance, dataset.FieldCreditLimit,
	dataset.FieldMinimumPaymentDue, dataset.FieldRewardsPoints, dataset.FieldLastCreditCardPaymentDate,
}

func TestCardsMonthlyTables(t *testing.T) {
	set := dataset.NewRecordSet(cardCols, []dataset.Record{
		{CardID: "K1", CreditCardBalance: num("300"), CreditLimit: num("5000"), MinimumPaymentDue: num("25"), RewardsPoints: num("120"), LastCreditCardPaymentDate: date(2023, time.April, 1)},
		{CardID: "K2", CreditCardBalance: num("100"), CreditLimit: num("1000"), MinimumPaymentDue: num("10"), RewardsPoints: num("5"), LastCreditCardPaymentDate: date(2022, time.April, 20)},
		{CardID: "K3", CreditCardBalance: num("50"), CreditLimit: num("2000"), MinimumPaymentDue: num("5"), LastCreditCardPaymentDate: date(2023, time.February, 3)},
		{CardID: "K4", CreditCardBalance: num("7"), CreditLimit: num("700"), MinimumPaymentDue: num("1")},
	})

	s, err := Compute(core.SectionCards, set)
	require.NoError(t, err)
	requireKPI(t, s, "card_count", "4")
	requireKPI(t, s, "total_card_balance", "457")
	requireKPI(t, s, "total_minimum_payment_due", "41")
	requireKPI(t, s, "total_rewards_points", "125")

	requireRows(t, s, "monthly_minimum_payment",
		map[string]string{"February": "5", "April": "35"},
		[]string{"February", "April"})

	tbl, ok := s.Table("monthly_balance_limit")
	require.True(t, ok)
	assert.Equal(t, []string{"February", "April"}, tbl.Keys())
	assert.Equal(t, []string{"Credit Card Balance", "Credit Limit"}, tbl.Columns)
	assert.True(t, tbl.Rows[1].Values[0].Equal(decimal.NewFromInt(400)))
	assert.True(t, tbl.Rows[1].Values[1].Equal(decimal.NewFromInt(6000)))
	assert.True(t, tbl.Max(1).Equal(decimal.NewFromInt(6000)))
}

func TestSchemaErrorNamesMissingField(t *testing.T) {
	set := dataset.NewRecordSet([]string{dataset.FieldCustomerID, dataset.FieldGender, dataset.FieldCity}, []dataset.Record{{CustomerID: "C1"}})

	_, err := Compute(core.SectionDemographics, set)
	var se *core.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, core.SectionDemographics, se.Section)
	assert.Equal(t, dataset.FieldAge, se.Field)
}

func TestSectionsAreIndependent(t *testing.T) {
	// Transaction columns only: demographics fails, transactions still works.
	set := dataset.NewRecordSet(transactionCols, []dataset.Record{
		{TransactionID: "T1", TransactionDate: date(2023, time.May, 1), TransactionAmount: num("5"), TransactionType: "Deposit"},
	})

	_, err := Compute(core.SectionDemographics, set)
	var se *core.SchemaError
	require.True(t, errors.As(err, &se))

	s, err := Compute(core.SectionTransactions, set)
	require.NoError(t, err)
	requireKPI(t, s, "transaction_count", "1")
}

func TestEmptyFilterYieldsEmptyResult(t *testing.T) {
	store, err := dataset.Load(filepath.Join("..", "dataset", "testdata", "banking_sample.csv"))
	require.NoError(t, err)

	sel := filter.All(filter.Observe(store))
	sel.Gender = filter.NewSet()
	filtered := filter.Apply(store, sel)
	require.Equal(t, 0, filtered.Len())

	_, err = Compute(core.SectionDemographics, filtered)
	var ee *core.EmptyResultError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, core.SectionDemographics, ee.Section)

	// The same store under the default filters still computes.
	s, err := Compute(core.SectionCards, filter.Apply(store, filter.All(filter.Observe(store))))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Records)
}

func TestUnknownSection(t *testing.T) {
	_, err := Compute("loans", dataset.NewRecordSet(nil, nil))
	assert.ErrorIs(t, err, core.ErrUnknownSection)
}

func TestSampleEndToEnd(t *testing.T) {
	store, err := dataset.Load(filepath.Join("..", "dataset", "testdata", "banking_sample.csv"))
	require.NoError(t, err)

	for _, section := range core.Sections() {
		s, err := Compute(section, store.All())
		require.NoError(t, err, section)
		assert.NotEmpty(t, s.KPIs, section)
		assert.NotEmpty(t, s.Tables, section)
	}

	s, err := Compute(core.SectionAccounts, store.All())
	require.NoError(t, err)
	requireRows(t, s, "loans_per_year", map[string]string{"2022": "1", "2023": "1"}, []string{"2022", "2023"})
}
