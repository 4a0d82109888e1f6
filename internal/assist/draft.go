package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zillowlike.app/api/common/llm"
	"zillowlike.app/api/internal/coaching"
)

type DraftInput struct {
	ClientName    string
	RealtorName   string
	PropertyTitle string
	PropertyCity  string
	Purpose       string // SALE or RENT
	PriceCents    int64
	ClientMessage string
	Intent        coaching.Intent
}

type Draft struct {
	Reply    string          `json:"reply"`
	Tone     string          `json:"tone"`
	Intent   coaching.Intent `json:"intent"`
	Fallback bool            `json:"fallback"`
}

type draftOutput struct {
	Reply string `json:"reply" jsonschema:"description=Message to send to the client in Brazilian Portuguese"`
	Tone  string `json:"tone" jsonschema:"enum=friendly,enum=formal,enum=direct"`
}

var draftSchema = llm.GenerateSchema[draftOutput]()

const draftSystemPrompt = `You are an assistant for Brazilian real-estate agents.
Write a short WhatsApp reply (at most 4 sentences) in Brazilian Portuguese.
Never invent facts about the property that are not in the context.
Do not include greetings longer than one line. No emojis.`

// Reply drafts an answer to the client's last message. It never fails: any LLM
// problem yields FallbackReply.
func (a *Assistant) Reply(ctx context.Context, in DraftInput) Draft {
	var out draftOutput
	err := a.chat(ctx, llm.Request{
		SystemPrompt: draftSystemPrompt,
		UserPrompt:   buildDraftPrompt(in),
		UserName:     in.RealtorName,
		SchemaName:   "lead_reply_draft",
		Schema:       draftSchema,
		MaxTokens:    400,
		Temperature:  llm.Temp(0.4),
	}, &out)
	if err != nil || strings.TrimSpace(out.Reply) == "" {
		if err != errNoClient {
			slog.WarnContext(ctx, "draft generation failed, using fallback", "error", err, "intent", in.Intent)
		}
		return FallbackReply(in)
	}

	return Draft{
		Reply:  strings.TrimSpace(out.Reply),
		Tone:   out.Tone,
		Intent: in.Intent,
	}
}

func buildDraftPrompt(in DraftInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Property: %s (%s)\n", in.PropertyTitle, in.PropertyCity)
	if in.PriceCents > 0 {
		label := "Sale price"
		if in.Purpose == "RENT" {
			label = "Monthly rent"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, FormatBRL(in.PriceCents))
	}
	if in.ClientName != "" {
		fmt.Fprintf(&b, "Client name: %s\n", in.ClientName)
	}
	fmt.Fprintf(&b, "Detected intent: %s\n", in.Intent)
	fmt.Fprintf(&b, "Guidance: %s\n", IntentGuidance(in.Intent))
	if msg := strings.TrimSpace(in.ClientMessage); msg != "" {
		fmt.Fprintf(&b, "\nClient message:\n%s\n", msg)
	}
	return b.String()
}

// FallbackReply is a fixed template per intent.
func FallbackReply(in DraftInput) Draft {
	greeting := "Olá!"
	if name := firstName(in.ClientName); name != "" {
		greeting = "Olá, " + name + "!"
	}
	property := in.PropertyTitle
	if property == "" {
		property = "o imóvel"
	}

	var body string
	switch in.Intent {
	case coaching.IntentVisit:
		body = fmt.Sprintf("Claro, podemos agendar uma visita a %s. Você prefere amanhã de manhã ou à tarde?", property)
	case coaching.IntentPrice:
		if in.PriceCents > 0 {
			body = fmt.Sprintf("O valor de %s é %s. Qual faixa de investimento você tem em mente?", property, FormatBRL(in.PriceCents))
		} else {
			body = fmt.Sprintf("Posso te passar todos os valores de %s. Qual faixa de investimento você tem em mente?", property)
		}
	case coaching.IntentFinancing:
		body = fmt.Sprintf("%s aceita financiamento. Você já tem uma pré-aprovação de crédito ou pretende usar o FGTS?", capitalize(property))
	case coaching.IntentAvailability:
		body = fmt.Sprintf("Sim, %s está disponível. Quer agendar uma visita?", property)
	default:
		body = fmt.Sprintf("Obrigado pelo interesse em %s. Como posso te ajudar?", property)
	}

	return Draft{
		Reply:    greeting + " " + body,
		Tone:     "friendly",
		Intent:   in.Intent,
		Fallback: true,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
