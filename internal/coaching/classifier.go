// Package coaching classifies client chat messages and suggests how a realtor should respond.
package coaching

import (
	"regexp"

	"zillowlike.app/api/common"
	"zillowlike.app/api/internal/model"
)

type Intent string

const (
	IntentVisit        Intent = "VISIT"
	IntentPrice        Intent = "PRICE"
	IntentFinancing    Intent = "FINANCING"
	IntentAvailability Intent = "AVAILABILITY"
	IntentGeneral      Intent = "GENERAL"
)

// Intents lists every category; GENERAL is the fallback.
var Intents = []Intent{IntentVisit, IntentPrice, IntentFinancing, IntentAvailability, IntentGeneral}

type rule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// Order doubles as the tie-break priority.
var rules = []rule{
	{IntentVisit, regexp.MustCompile(`\b(visita|visitar|conhecer|agendar|agendamento|marcar|horario|ver o (imovel|apartamento|ap|casa)|visit|tour|showing|schedule)\b`)},
	{IntentPrice, regexp.MustCompile(`\b(preco|valor|quanto (custa|sai|fica|e)|desconto|negociar|negociavel|negociacao|proposta|oferta|contraproposta|price|cost|discount|offer)\b|r\$\s*\d`)},
	{IntentFinancing, regexp.MustCompile(`\b(financiamento|financiar|financia|fgts|entrada|parcela|parcelas|credito|banco|caixa|simulacao|consorcio|mortgage|financing|loan|down payment)\b`)},
	{IntentAvailability, regexp.MustCompile(`\b(disponivel|disponibilidade|ainda (esta|ta|tem)|vendido|alugado|ocupado|desocupado|available|still|sold|rented)\b`)},
}

type Classification struct {
	Intent         Intent      `json:"intent"`
	Matches        []string    `json:"matches"`
	Confidence     float64     `json:"confidence"`
	Tips           []string    `json:"tips"`
	SuggestedStage model.Stage `json:"suggested_stage"`
}

// Classify returns the intent with the most keyword hits; ties go to the earlier rule.
// Text with no hits is GENERAL with zero confidence.
func Classify(text string) Classification {
	normalized := common.NormalizeText(text)

	best := IntentGeneral
	bestCount := 0
	total := 0
	var bestMatches []string

	for _, r := range rules {
		found := r.pattern.FindAllString(normalized, -1)
		total += len(found)
		if len(found) > bestCount {
			best = r.intent
			bestCount = len(found)
			bestMatches = found
		}
	}

	c := Classification{
		Intent:         best,
		Matches:        bestMatches,
		Tips:           tipsFor(best),
		SuggestedStage: suggestedStage(best),
	}
	if total > 0 {
		c.Confidence = float64(bestCount) / float64(total)
	}
	if c.Matches == nil {
		c.Matches = []string{}
	}
	return c
}

func suggestedStage(intent Intent) model.Stage {
	switch intent {
	case IntentVisit:
		return model.StageVisit
	case IntentPrice:
		return model.StageProposal
	case IntentFinancing:
		return model.StageDocuments
	default:
		return model.StageContact
	}
}

func tipsFor(intent Intent) []string {
	switch intent {
	case IntentVisit:
		return []string{
			"Offer two concrete time slots instead of asking when they are free.",
			"Confirm the address and who will meet them at the property.",
		}
	case IntentPrice:
		return []string{
			"State the asking price and what it includes (condo fee, IPTU).",
			"Ask what range they had in mind before discussing discounts.",
		}
	case IntentFinancing:
		return []string{
			"Ask whether they already have a credit pre-approval.",
			"Mention FGTS and down payment options when relevant.",
		}
	case IntentAvailability:
		return []string{
			"Confirm availability right away and suggest a visit.",
			"If unavailable, offer two similar listings.",
		}
	default:
		return []string{
			"Greet them by name and restate the property they asked about.",
			"End with a question that moves toward a visit.",
		}
	}
}
