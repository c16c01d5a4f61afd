package dialogue

import (
	"strings"

	"github.com/pensionworks/support-bot/internal/session"
)

// Intent is a classified menu selection or topic sub-choice. Free text that
// matches nothing falls through as IntentUnknown.
type Intent string

const (
	IntentUnknown Intent = "unknown"

	// Main menu selections.
	IntentPensionInfo   Intent = "pension_info"
	IntentBalance       Intent = "balance"
	IntentConsultation  Intent = "consultation"
	IntentContributions Intent = "contributions"
	IntentAgent         Intent = "agent"

	// Pension info sub-choices.
	IntentInfoRates      Intent = "info_rates"
	IntentInfoInvestment Intent = "info_investment"
	IntentInfoRetirement Intent = "info_retirement"
	IntentInfoTax        Intent = "info_tax"

	// Contribution topic sub-choices.
	IntentContribRates    Intent = "contrib_rates"
	IntentContribIncrease Intent = "contrib_increase"
	IntentContribHistory  Intent = "contrib_history"
)

// Classifier maps raw message text plus the current step to a discrete
// intent. It is a capability the dialogue engine consumes; the default is
// keyword matching, not language understanding.
type Classifier interface {
	Classify(text string, step session.Step) Intent
}

// KeywordClassifier matches fixed keyword sets per step. Single-character
// menu options must match the whole trimmed input; longer keywords match
// anywhere in the text.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string, step session.Step) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	switch step {
	case session.StepMainMenu:
		switch {
		case matchChoice(t, "1", "information", "general"):
			return IntentPensionInfo
		case matchChoice(t, "2", "balance", "account"):
			return IntentBalance
		case matchChoice(t, "3", "consultation", "appointment"):
			return IntentConsultation
		case matchChoice(t, "4", "contribution", "payment"):
			return IntentContributions
		case matchChoice(t, "5", "agent", "human"):
			return IntentAgent
		}

	case session.StepPensionInfo:
		switch {
		case matchChoice(t, "a", "contribution rates"):
			return IntentInfoRates
		case matchChoice(t, "b", "investment"):
			return IntentInfoInvestment
		case matchChoice(t, "c", "retirement benefits"):
			return IntentInfoRetirement
		case matchChoice(t, "d", "tax"):
			return IntentInfoTax
		}

	case session.StepContributionHelp:
		switch {
		case matchChoice(t, "", "rate", "how much"):
			return IntentContribRates
		case matchChoice(t, "", "increase", "more"):
			return IntentContribIncrease
		case matchChoice(t, "", "history", "past"):
			return IntentContribHistory
		}
	}

	return IntentUnknown
}

// matchChoice matches the exact option character or any of the longer
// keywords as a substring.
func matchChoice(text, option string, keywords ...string) bool {
	if option != "" && text == option {
		return true
	}
	for _, w := range keywords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsMenuInterrupt reports whether the inbound text carries the literal
// "menu" keyword, case-insensitive.
func IsMenuInterrupt(text string) bool {
	return strings.Contains(strings.ToLower(text), "menu")
}
