package payment

import (
	"errors"
	"fmt"
	"strings"
)

// Payment sources and their configured detail options. The details list for a
// source is static: banks for UPI and debit cards, card issuers for credit
// cards. Sources without configured details (cash, salary deposit) must not
// carry a details value at all.

const (
	SourceUPI           = "upi"
	SourceDebitCard     = "debit-card"
	SourceCreditCard    = "credit-card"
	SourceCash          = "cash"
	SourceSalaryDeposit = "salary-deposit"
)

// SalaryCategory is the income category that locks payment fields to the
// salary deposit source.
const SalaryCategory = "Salary"

var sourceDetails = map[string][]string{
	SourceUPI:           {"HDFC Bank", "ICICI Bank", "SBI", "Axis Bank"},
	SourceDebitCard:     {"HDFC Bank", "ICICI Bank", "SBI", "Axis Bank"},
	SourceCreditCard:    {"HDFC Regalia", "ICICI Amazon Pay", "SBI SimplyCLICK", "Axis Flipkart"},
	SourceCash:          nil,
	SourceSalaryDeposit: nil,
}

var (
	ErrUnknownSource     = errors.New("unknown payment source")
	ErrDetailsRequired   = errors.New("source details required for this payment source")
	ErrDetailsInvalid    = errors.New("source details not configured for this payment source")
	ErrDetailsNotAllowed = errors.New("payment source does not take source details")
)

// Sources returns the known payment source keys.
func Sources() []string {
	return []string{SourceUPI, SourceDebitCard, SourceCreditCard, SourceCash, SourceSalaryDeposit}
}

// DetailsFor returns the configured detail options for a source, nil when the
// source takes none, and false when the source is unknown.
func DetailsFor(source string) ([]string, bool) {
	d, ok := sourceDetails[source]
	return d, ok
}

// ValidateSelection checks a (source, details) pair against the static
// lookup: sources with configured details require exactly one of them,
// sources without forbid any details value.
func ValidateSelection(source string, details *string) error {
	opts, ok := sourceDetails[source]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if len(opts) == 0 {
		if details != nil && strings.TrimSpace(*details) != "" {
			return ErrDetailsNotAllowed
		}
		return nil
	}
	if details == nil || strings.TrimSpace(*details) == "" {
		return ErrDetailsRequired
	}
	for _, opt := range opts {
		if opt == *details {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrDetailsInvalid, *details)
}

// Selection is a fully resolved payment triple.
type Selection struct {
	PaymentTo     string
	PaymentSource string
	SourceDetails *string
}

// ApplySalaryOverride forces the fixed salary payment fields for income
// transactions in the salary category. The override is derived per call and
// never persisted as state, so changing type or category away from salary
// naturally reverts it. Returns false when the override does not apply.
func ApplySalaryOverride(txType, category, salaryAccountName string) (Selection, bool) {
	if txType != "income" || !strings.EqualFold(category, SalaryCategory) {
		return Selection{}, false
	}
	details := salaryAccountName
	return Selection{
		PaymentTo:     "Salary Deposit",
		PaymentSource: SourceSalaryDeposit,
		SourceDetails: &details,
	}, true
}
