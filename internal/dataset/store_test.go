package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdash/internal/core"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		" Approval/Rejection Date ": "Approval_Rejection_Date",
		"Customer ID":               "Customer_ID",
		"Customer_ID":               "Customer_ID",
		"Credit  Card -- Balance":   "Credit_Card_Balance",
		"\ufeffTransactionID":       "TransactionID",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), "header %q", in)
	}
}

func TestResolveField(t *testing.T) {
	for _, raw := range []string{"Customer ID", "customer_id", "CUSTOMERID", " Customer/ID "} {
		f, ok := ResolveField(raw)
		require.True(t, ok, raw)
		assert.Equal(t, FieldCustomerID, f)
	}
	f, ok := ResolveField("Approval/Rejection Date")
	require.True(t, ok)
	assert.Equal(t, FieldApprovalRejectionDate, f)

	_, ok = ResolveField("Branch Code")
	assert.False(t, ok)
}

func TestLoadSample(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "banking_sample.csv"))
	require.NoError(t, err)

	assert.Equal(t, 4, store.Len())
	assert.True(t, store.Has(FieldApprovalRejectionDate))
	assert.True(t, store.Has(FieldGender))
	assert.Len(t, store.Columns(), len(Fields))
	assert.NotEmpty(t, store.Generation())

	recs := store.Records()
	assert.Equal(t, "C1", recs[0].CustomerID)
	assert.Equal(t, "Male", recs[0].Gender)
	assert.Equal(t, "1000.5", recs[0].AccountBalance.Decimal.String())
	assert.Equal(t, "March", recs[0].Month())
	assert.Equal(t, "2023Q1", recs[0].Quarter())
	year, ok := recs[0].LoanYear()
	assert.True(t, ok)
	assert.Equal(t, 2022, year)

	// Unparseable dates become absent, not errors.
	assert.False(t, recs[1].LastCreditCardPaymentDate.Valid)
	assert.Empty(t, recs[1].PaymentMonth())
	assert.False(t, recs[3].ApprovalRejectionDate.Valid)
	assert.False(t, recs[3].TransactionDate.Valid)
	assert.Empty(t, recs[3].Month())

	// Missing numerics are absent rather than zero.
	assert.False(t, recs[3].Age.Valid)
	assert.False(t, recs[3].LoanAmount.Valid)
	assert.False(t, recs[3].RewardsPoints.Valid)

	group, ok := recs[2].AgeGroup()
	assert.False(t, ok)
	assert.Empty(t, group)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)

	var le *core.LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEmptyAndUnrecognized(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := Load(empty)
	var le *core.LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, ErrEmptyTable))

	foreign := filepath.Join(dir, "foreign.csv")
	require.NoError(t, os.WriteFile(foreign, []byte("a,b\n1,2\n"), 0o644))
	_, err = Load(foreign)
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, ErrNoColumns))
}

func TestFromTableToleratesRaggedRows(t *testing.T) {
	header := []string{"Customer ID", "Gender", "Age"}
	rows := [][]string{
		{"C1", "Male"},
		{"C2", "Female", "33", "extra"},
		{" ", "", ""},
	}
	store, err := FromTable("inline", header, rows)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.False(t, store.Records()[0].Age.Valid)
	assert.Equal(t, 33, store.Records()[1].Age.Int)
	assert.False(t, store.Has(FieldCity))
}

func TestReadCSV(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader("Gender,Age\nMale,30\nFemale\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Gender", "Age"}, header)
	assert.Len(t, rows, 2)
}

func TestFilterDoesNotMutateStore(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "banking_sample.csv"))
	require.NoError(t, err)

	males := store.Filter(func(r Record) bool { return r.Gender == "Male" })
	assert.Equal(t, 2, males.Len())
	assert.True(t, males.Has(FieldCity))
	assert.Equal(t, 4, store.Len())

	again := males.Filter(func(r Record) bool { return r.Gender == "Male" })
	assert.Equal(t, males.Records(), again.Records())
}
