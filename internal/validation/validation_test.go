package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconsole/internal/leads"
)

func TestValidateLeadEdit(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		wantKind Kind
		valid    bool
	}{
		{name: "missing", email: "", wantKind: MissingField},
		{name: "no at sign", email: "not-an-email", wantKind: InvalidFormat},
		{name: "no tld", email: "a@b", wantKind: InvalidFormat},
		{name: "whitespace", email: "a b@c.com", wantKind: InvalidFormat},
		{name: "short valid", email: "a@b.co", valid: true},
		{name: "regular", email: "ana.souza@globex.com", valid: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateLeadEdit(leads.Lead{ID: "1", Email: tc.email})
			if tc.valid {
				assert.True(t, errs.OK(), errs.Error())
				return
			}
			require.Contains(t, errs, FieldEmail)
			assert.Equal(t, tc.wantKind, errs[FieldEmail].Kind)
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidateLeadEditMessages(t *testing.T) {
	errs := ValidateLeadEdit(leads.Lead{})
	assert.Equal(t, "Email is required", errs[FieldEmail].Message)

	errs = ValidateLeadEdit(leads.Lead{Email: "nope"})
	assert.Equal(t, "Please enter a valid email address", errs[FieldEmail].Message)
}

func TestValidateOpportunityDraft(t *testing.T) {
	valid := leads.OpportunityDraft{Name: "Acme Deal", Stage: leads.StageProspecting, AccountName: "Acme", Amount: "1000"}
	assert.True(t, ValidateOpportunityDraft(valid).OK())

	blankAmount := valid
	blankAmount.Amount = ""
	assert.True(t, ValidateOpportunityDraft(blankAmount).OK())

	errs := ValidateOpportunityDraft(leads.OpportunityDraft{Name: "   ", AccountName: "\t", Amount: "12abc"})
	require.Len(t, errs, 3)
	assert.Equal(t, MissingField, errs[FieldName].Kind)
	assert.Equal(t, "Opportunity name is required", errs[FieldName].Message)
	assert.Equal(t, MissingField, errs[FieldAccountName].Kind)
	assert.Equal(t, InvalidFormat, errs[FieldAmount].Kind)
	assert.Equal(t, "Amount must be a valid number", errs[FieldAmount].Message)
}

func TestValidateOpportunityDraftAmounts(t *testing.T) {
	for _, amount := range []string{"NaN", "Inf", "-Inf", "1,000", "-5"} {
		errs := ValidateOpportunityDraft(leads.OpportunityDraft{Name: "x", AccountName: "y", Amount: amount})
		require.Contains(t, errs, FieldAmount, amount)
		assert.Equal(t, InvalidFormat, errs[FieldAmount].Kind, amount)
	}
	for _, amount := range []string{"0", " 250.50 ", "1e3"} {
		errs := ValidateOpportunityDraft(leads.OpportunityDraft{Name: "x", AccountName: "y", Amount: amount})
		assert.True(t, errs.OK(), amount)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseAmount("1000")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1000.0, *v)

	_, err = ParseAmount("ten")
	assert.Error(t, err)
}

func TestErrorsString(t *testing.T) {
	errs := Errors{
		FieldName:  {Kind: MissingField, Message: "required"},
		FieldEmail: {Kind: InvalidFormat, Message: "bad"},
	}
	assert.Equal(t, "email: bad; name: required", errs.Error())

	general := General("Failed to save changes. Please try again.")
	assert.Equal(t, GeneralFailure, general[FieldGeneral].Kind)
}
