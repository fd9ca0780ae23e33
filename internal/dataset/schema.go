package dataset

import (
	"strings"
	"unicode"
)

// Logical field names of the banking dataset.
const (
	FieldCustomerID                = "Customer_ID"
	FieldGender                    = "Gender"
	FieldAge                       = "Age"
	FieldCity                      = "City"
	FieldAccountID                 = "Account_ID"
	FieldAccountType               = "Account_Type"
	FieldAccountBalance            = "Account_Balance"
	FieldLoanID                    = "Loan_ID"
	FieldLoanAmount                = "Loan_Amount"
	FieldInterestRate              = "Interest_Rate"
	FieldLoanTerm                  = "Loan_Term"
	FieldApprovalRejectionDate     = "Approval_Rejection_Date"
	FieldTransactionID             = "TransactionID"
	FieldTransactionDate           = "Transaction_Date"
	FieldTransactionAmount         = "Transaction_Amount"
	FieldTransactionType           = "Transaction_Type"
	FieldCardID                    = "CardID"
	FieldCardType                  = "Card_Type"
	FieldCreditCardBalance         = "Credit_Card_Balance"
	FieldCreditLimit               = "Credit_Limit"
	FieldMinimumPaymentDue         = "Minimum_Payment_Due"
	FieldRewardsPoints             = "Rewards_Points"
	FieldLastCreditCardPaymentDate = "Last_Credit_Card_Payment_Date"
)

// Fields lists every logical field the loader recognizes.
var Fields = []string{
	FieldCustomerID, FieldGender, FieldAge, FieldCity,
	FieldAccountID, FieldAccountType, FieldAccountBalance,
	FieldLoanID, FieldLoanAmount, FieldInterestRate, FieldLoanTerm, FieldApprovalRejectionDate,
	FieldTransactionID, FieldTransactionDate, FieldTransactionAmount, FieldTransactionType,
	FieldCardID, FieldCardType, FieldCreditCardBalance, FieldCreditLimit,
	FieldMinimumPaymentDue, FieldRewardsPoints, FieldLastCreditCardPaymentDate,
}

var fieldsByKey = func() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[lookupKey(f)] = f
	}
	return m
}()

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '/' || r == '_' || r == '-'
}

// NormalizeHeader trims a raw column header and collapses every run of
// separators (whitespace, '/', '_', '-') into a single underscore.
//
//	" Approval/Rejection Date " -> "Approval_Rejection_Date"
func NormalizeHeader(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	parts := strings.FieldsFunc(raw, isSeparator)
	return strings.Join(parts, "_")
}

// lookupKey drops separators and case so formatting variants compare equal.
func lookupKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if isSeparator(r) || r == '\ufeff' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ResolveField maps a raw header to its logical field name.
func ResolveField(raw string) (string, bool) {
	f, ok := fieldsByKey[lookupKey(raw)]
	return f, ok
}
