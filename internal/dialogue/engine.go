package dialogue

import (
	"strings"

	"github.com/pensionworks/support-bot/internal/session"
)

// Result is the outcome of one dialogue turn outside the agent flow.
type Result struct {
	// Reply is the response text for the customer.
	Reply string
	// RequestAgent is set when the customer asked for a human: the caller
	// hands control to the routing coordinator.
	RequestAgent bool
	// Recovered is set when the session held an unknown step and was reset.
	Recovered bool
}

// Engine is the finite-state machine over the non-agent dialogue steps.
// Transitions are data: a handler table per step, and a route table for the
// main menu. The agent-routing family of steps is owned by the routing
// coordinator, not the engine.
type Engine struct {
	classifier Classifier
	company    string
	handlers   map[session.Step]handlerFunc
	menuRoutes map[Intent]menuRoute
}

type handlerFunc func(e *Engine, s *session.Session, text string) Result

// menuRoute pairs a main-menu intent with its response and destination step.
type menuRoute struct {
	reply func(e *Engine) string
	next  session.Step
}

// NewEngine builds the dialogue engine. A nil classifier gets the default
// keyword classifier.
func NewEngine(classifier Classifier, company string) *Engine {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	e := &Engine{
		classifier: classifier,
		company:    company,
	}
	e.handlers = map[session.Step]handlerFunc{
		session.StepWelcome:              (*Engine).handleWelcome,
		session.StepMainMenu:             (*Engine).handleMainMenu,
		session.StepPensionInfo:          (*Engine).handlePensionInfo,
		session.StepBalanceVerification:  (*Engine).handleBalanceVerification,
		session.StepScheduleConsultation: (*Engine).handleConsultation,
		session.StepContributionHelp:     (*Engine).handleContributions,
	}
	e.menuRoutes = map[Intent]menuRoute{
		IntentPensionInfo:   {func(*Engine) string { return pensionInfoText }, session.StepPensionInfo},
		IntentBalance:       {func(*Engine) string { return balancePromptText }, session.StepBalanceVerification},
		IntentConsultation:  {func(*Engine) string { return consultationPromptText }, session.StepScheduleConsultation},
		IntentContributions: {func(*Engine) string { return contributionPromptText }, session.StepContributionHelp},
	}
	return e
}

// Owns reports whether the engine handles the given step.
func (e *Engine) Owns(step session.Step) bool {
	_, ok := e.handlers[step]
	return ok
}

// Handle advances the session one turn. The caller is responsible for the
// global menu interrupt and the menu hint; Handle computes the state's own
// response and transition.
func (e *Engine) Handle(s *session.Session, text string) Result {
	handler, ok := e.handlers[s.Step]
	if !ok {
		// Unknown or foreign step: recover to the main menu rather than fail.
		s.Step = session.StepMainMenu
		s.Scratch.Clear()
		return Result{Reply: recoveryMenuText(), Recovered: true}
	}
	return handler(e, s, text)
}

// MenuText renders the main menu prompt used for the global "menu"
// interrupt and for session recovery.
func MenuText() string {
	return recoveryMenuText()
}

func (e *Engine) handleWelcome(s *session.Session, _ string) Result {
	s.Step = session.StepMainMenu
	return Result{Reply: welcomeText(s.DisplayName, e.company)}
}

func (e *Engine) handleMainMenu(s *session.Session, text string) Result {
	intent := e.classifier.Classify(text, session.StepMainMenu)
	if intent == IntentAgent {
		return Result{RequestAgent: true}
	}
	if route, ok := e.menuRoutes[intent]; ok {
		s.Step = route.next
		return Result{Reply: route.reply(e)}
	}
	return Result{Reply: mainMenuFallbackText()}
}

func (e *Engine) handlePensionInfo(s *session.Session, text string) Result {
	switch e.classifier.Classify(text, session.StepPensionInfo) {
	case IntentInfoRates:
		return Result{Reply: infoRatesText}
	case IntentInfoInvestment:
		return Result{Reply: infoInvestmentText}
	case IntentInfoRetirement:
		return Result{Reply: infoRetirementText}
	case IntentInfoTax:
		return Result{Reply: infoTaxText}
	default:
		return Result{Reply: pensionInfoRepromptText}
	}
}

func (e *Engine) handleBalanceVerification(s *session.Session, text string) Result {
	// Single-turn topic: the details go straight to manual verification, so
	// the flow completes immediately.
	s.Step = session.StepMainMenu
	s.Scratch.Clear()
	return Result{Reply: balanceRecordedText}
}

func (e *Engine) handleConsultation(s *session.Session, text string) Result {
	preferences := strings.TrimSpace(text)
	s.Step = session.StepMainMenu
	s.Scratch.Clear()
	return Result{Reply: consultationRecordedText(preferences)}
}

func (e *Engine) handleContributions(s *session.Session, text string) Result {
	switch e.classifier.Classify(text, session.StepContributionHelp) {
	case IntentContribRates:
		return Result{Reply: contribRatesText}
	case IntentContribIncrease:
		return Result{Reply: contribIncreaseText}
	case IntentContribHistory:
		return Result{Reply: contribHistoryText}
	default:
		return Result{Reply: contributionFallbackText}
	}
}

// EnsureMenuHint appends the one-line menu hint unless the response already
// mentions the keyword. Applied exactly once per turn by the caller.
func EnsureMenuHint(response string) string {
	if strings.Contains(strings.ToLower(response), "menu") {
		return response
	}
	return response + menuHint
}
