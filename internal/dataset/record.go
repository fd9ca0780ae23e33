package dataset

import (
	"github.com/shopspring/decimal"

	"bankdash/internal/core"
)

// Record is one row of the banking dataset. Columns missing from the source
// leave their fields at the zero (absent) value; Store.Has tells the two apart.
type Record struct {
	CustomerID string
	Gender     string
	Age        core.NullInt
	City       string

	AccountID      string
	AccountType    string
	AccountBalance decimal.NullDecimal

	LoanID                string
	LoanAmount            decimal.NullDecimal
	InterestRate          decimal.NullDecimal
	LoanTerm              core.NullInt
	ApprovalRejectionDate core.NullDate

	TransactionID     string
	TransactionDate   core.NullDate
	TransactionAmount decimal.NullDecimal
	TransactionType   string

	CardID                    string
	CardType                  string
	CreditCardBalance         decimal.NullDecimal
	CreditLimit               decimal.NullDecimal
	MinimumPaymentDue         decimal.NullDecimal
	RewardsPoints             decimal.NullDecimal
	LastCreditCardPaymentDate core.NullDate
}

// Month is the transaction month name, "" when the date is absent.
func (r Record) Month() string { return r.TransactionDate.MonthName() }

// Quarter is the transaction quarter label, "" when the date is absent.
func (r Record) Quarter() string { return r.TransactionDate.Quarter() }

// PaymentMonth is the month name of the last card payment.
func (r Record) PaymentMonth() string { return r.LastCreditCardPaymentDate.MonthName() }

// LoanYear is the year of the loan approval/rejection.
func (r Record) LoanYear() (int, bool) { return r.ApprovalRejectionDate.Year() }

// AgeGroup is the age bucket label.
func (r Record) AgeGroup() (string, bool) {
	if !r.Age.Valid {
		return "", false
	}
	return core.AgeGroup(r.Age.Int)
}

// set assigns a raw cell to the field it belongs to, parsing as needed.
func (r *Record) set(field, raw string) {
	switch field {
	case FieldCustomerID:
		r.CustomerID = cleanText(raw)
	case FieldGender:
		r.Gender = cleanText(raw)
	case FieldAge:
		r.Age = core.ParseInt(raw)
	case FieldCity:
		r.City = cleanText(raw)
	case FieldAccountID:
		r.AccountID = cleanText(raw)
	case FieldAccountType:
		r.AccountType = cleanText(raw)
	case FieldAccountBalance:
		r.AccountBalance = core.ParseNumber(raw)
	case FieldLoanID:
		r.LoanID = cleanText(raw)
	case FieldLoanAmount:
		r.LoanAmount = core.ParseNumber(raw)
	case FieldInterestRate:
		r.InterestRate = core.ParseNumber(raw)
	case FieldLoanTerm:
		r.LoanTerm = core.ParseInt(raw)
	case FieldApprovalRejectionDate:
		r.ApprovalRejectionDate = core.ParseDate(raw)
	case FieldTransactionID:
		r.TransactionID = cleanText(raw)
	case FieldTransactionDate:
		r.TransactionDate = core.ParseDate(raw)
	case FieldTransactionAmount:
		r.TransactionAmount = core.ParseNumber(raw)
	case FieldTransactionType:
		r.TransactionType = cleanText(raw)
	case FieldCardID:
		r.CardID = cleanText(raw)
	case FieldCardType:
		r.CardType = cleanText(raw)
	case FieldCreditCardBalance:
		r.CreditCardBalance = core.ParseNumber(raw)
	case FieldCreditLimit:
		r.CreditLimit = core.ParseNumber(raw)
	case FieldMinimumPaymentDue:
		r.MinimumPaymentDue = core.ParseNumber(raw)
	case FieldRewardsPoints:
		r.RewardsPoints = core.ParseNumber(raw)
	case FieldLastCreditCardPaymentDate:
		r.LastCreditCardPaymentDate = core.ParseDate(raw)
	}
}
