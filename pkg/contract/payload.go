package contract

import "github.com/goliatone/go-signup/pkg/wizard"

// AccountPayload is the createAccount request body for a draft.
func AccountPayload(draft wizard.Draft) map[string]any {
	return map[string]any{
		"account": accountObject(draft),
	}
}

// SubscriptionPayload is the createSubscription request body for a draft.
func SubscriptionPayload(draft wizard.Draft) map[string]any {
	return map[string]any{
		"account": accountObject(draft),
		"payment": map[string]any{
			"card_number": draft.CardNumber,
			"card_expiry": draft.CardExpiry,
			"card_cvc":    draft.CardCVC,
		},
	}
}

// OperationFor maps a finalize effect to the contract operation serving it.
func OperationFor(effect wizard.Effect) (string, bool) {
	switch effect {
	case wizard.EffectFinalizeSignup:
		return OpCreateAccount, true
	case wizard.EffectFinalizePayment:
		return OpCreateSubscription, true
	default:
		return "", false
	}
}

// PayloadFor builds the request body for a finalize effect.
func PayloadFor(effect wizard.Effect, draft wizard.Draft) (map[string]any, bool) {
	switch effect {
	case wizard.EffectFinalizeSignup:
		return AccountPayload(draft), true
	case wizard.EffectFinalizePayment:
		return SubscriptionPayload(draft), true
	default:
		return nil, false
	}
}

func accountObject(draft wizard.Draft) map[string]any {
	return map[string]any{
		"first_name":  draft.FirstName,
		"last_name":   draft.LastName,
		"email":       draft.Email,
		"password":    draft.Password,
		"plan":        string(draft.Plan),
		"agree_terms": draft.AgreeTerms,
	}
}
