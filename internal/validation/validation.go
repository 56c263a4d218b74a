// Package validation holds the pure form validators for lead edits and
// opportunity drafts.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"sellerconsole/internal/leads"
)

// Kind classifies an error surfaced to the user.
type Kind string

const (
	MissingField   Kind = "MissingField"
	InvalidFormat  Kind = "InvalidFormat"
	GeneralFailure Kind = "GeneralFailure"
	LoadFailure    Kind = "LoadFailure"
)

// Field names reported by the validators.
const (
	FieldEmail       = "email"
	FieldName        = "name"
	FieldAccountName = "accountName"
	FieldAmount      = "amount"
	FieldGeneral     = "general"
)

// FieldError is a single user-facing problem.
type FieldError struct {
	Kind    Kind
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors maps a field name to its error. An empty map means valid.
type Errors map[string]FieldError

// OK reports whether there are no errors.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Error joins the messages in field order.
func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k].Message))
	}
	return strings.Join(parts, "; ")
}

// General builds the non-field banner error.
func General(message string) Errors {
	return Errors{FieldGeneral: {Kind: GeneralFailure, Message: message}}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	errAmountFormat   = ozzo.NewError("validation_amount_format", "Amount must be a valid number")
	errAmountNegative = ozzo.NewError("validation_amount_negative", "Amount cannot be negative")
)

// ValidateLeadEdit checks an edited lead. Only the email is validated.
func ValidateLeadEdit(l leads.Lead) Errors {
	return collect(ozzo.Errors{
		FieldEmail: ozzo.Validate(l.Email,
			ozzo.Required.Error("Email is required"),
			ozzo.Match(emailPattern).Error("Please enter a valid email address"),
		),
	})
}

// ValidateOpportunityDraft checks a conversion form.
func ValidateOpportunityDraft(d leads.OpportunityDraft) Errors {
	return collect(ozzo.Errors{
		FieldName: ozzo.Validate(strings.TrimSpace(d.Name),
			ozzo.Required.Error("Opportunity name is required"),
		),
		FieldAccountName: ozzo.Validate(strings.TrimSpace(d.AccountName),
			ozzo.Required.Error("Account name is required"),
		),
		FieldAmount: ozzo.Validate(d.Amount, ozzo.By(amountRule)),
	})
}

// ParseAmount converts the draft amount. Blank text means unset.
func ParseAmount(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errAmountFormat
	}
	if v < 0 {
		return nil, errAmountNegative
	}
	return &v, nil
}

func amountRule(value interface{}) error {
	text, _ := value.(string)
	_, err := ParseAmount(text)
	return err
}

func collect(raw ozzo.Errors) Errors {
	out := Errors{}
	for field, err := range raw {
		if err == nil {
			continue
		}
		out[field] = FieldError{Kind: kindOf(err), Message: messageOf(err)}
	}
	return out
}

func kindOf(err error) Kind {
	var vErr ozzo.Error
	if errors.As(err, &vErr) && vErr.Code() == ozzo.ErrRequired.Code() {
		return MissingField
	}
	return InvalidFormat
}

func messageOf(err error) string {
	var vErr ozzo.Error
	if errors.As(err, &vErr) {
		return vErr.Message()
	}
	return err.Error()
}
