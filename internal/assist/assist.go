// Package assist writes AI-assisted text for realtors: replies to clients and
// listing descriptions. Every call has a deterministic fallback, so callers never
// see an LLM error.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"zillowlike.app/api/common/llm"
	"zillowlike.app/api/internal/coaching"
)

var errNoClient = errors.New("llm client not configured")

type Config struct {
	Timeout        time.Duration
	RequestsPerMin int
}

type Assistant struct {
	client  llm.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// New accepts a nil client; every call then returns the fallback.
func New(client llm.Client, cfg Config) *Assistant {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}
	return &Assistant{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), max(1, rpm/10)),
		timeout: timeout,
	}
}

// chat runs one bounded, rate-limited structured call.
func (a *Assistant) chat(ctx context.Context, req llm.Request, out any) error {
	if a.client == nil {
		return errNoClient
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for llm rate limit: %w", err)
	}

	_, err := a.client.Chat(ctx, req, out)
	if err != nil && llm.IsRetryable(ctx, err) && ctx.Err() == nil {
		slog.DebugContext(ctx, "retrying llm call once", "schema", req.SchemaName)
		_, err = a.client.Chat(ctx, req, out)
	}
	return err
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders cents as Brazilian reais, e.g. 45000000 -> "R$ 450.000".
// Cents are shown only when non-zero.
func FormatBRL(cents int64) string {
	reais := cents / 100
	rest := cents % 100
	if rest < 0 {
		rest = -rest
	}
	if rest == 0 {
		return ptBR.Sprintf("R$ %d", reais)
	}
	return ptBR.Sprintf("R$ %d", reais) + fmt.Sprintf(",%02d", rest)
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		return ""
	}
	return strings.Fields(full)[0]
}

// IntentGuidance is the instruction block fed to the model for a given intent.
func IntentGuidance(intent coaching.Intent) string {
	switch intent {
	case coaching.IntentVisit:
		return "The client wants to visit. Propose two concrete time slots and confirm the address."
	case coaching.IntentPrice:
		return "The client asks about price or negotiation. State the asking price and fees, then ask about their budget."
	case coaching.IntentFinancing:
		return "The client asks about financing. Ask about credit pre-approval and mention FGTS and down payment options."
	case coaching.IntentAvailability:
		return "The client asks whether the property is available. Confirm availability and invite them to visit."
	default:
		return "Greet the client, restate the property, and end with a question that moves toward a visit."
	}
}
