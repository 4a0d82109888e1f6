package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zillowlike.app/api/common/llm"
)

type ListingInput struct {
	Title        string
	Type         string
	Purpose      string
	PriceCents   int64
	AreaM2       *float64
	Bedrooms     int
	Bathrooms    int
	ParkingSpots int
	Neighborhood string
	City         string
	State        string
	Highlights   []string
}

type Description struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type descriptionOutput struct {
	Description string `json:"description" jsonschema:"description=Listing description in Brazilian Portuguese, 2 short paragraphs"`
}

var descriptionSchema = llm.GenerateSchema[descriptionOutput]()

const descriptionSystemPrompt = `You write real-estate listing descriptions in Brazilian Portuguese.
Use only the facts given. Two short paragraphs, no headings, no emojis, no exaggeration.`

func (a *Assistant) Describe(ctx context.Context, in ListingInput) Description {
	var out descriptionOutput
	err := a.chat(ctx, llm.Request{
		SystemPrompt: descriptionSystemPrompt,
		UserPrompt:   listingFacts(in),
		SchemaName:   "listing_description",
		Schema:       descriptionSchema,
		MaxTokens:    600,
		Temperature:  llm.Temp(0.7),
	}, &out)
	if err != nil || strings.TrimSpace(out.Description) == "" {
		if err != errNoClient {
			slog.WarnContext(ctx, "description generation failed, using fallback", "error", err)
		}
		return FallbackDescription(in)
	}
	return Description{Text: strings.TrimSpace(out.Description)}
}

func listingFacts(in ListingInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nType: %s\nPurpose: %s\n", in.Title, in.Type, in.Purpose)
	if in.PriceCents > 0 {
		fmt.Fprintf(&b, "Price: %s\n", FormatBRL(in.PriceCents))
	}
	if in.AreaM2 != nil {
		fmt.Fprintf(&b, "Area: %.0f m²\n", *in.AreaM2)
	}
	fmt.Fprintf(&b, "Bedrooms: %d\nBathrooms: %d\nParking spots: %d\n", in.Bedrooms, in.Bathrooms, in.ParkingSpots)
	fmt.Fprintf(&b, "Location: %s\n", location(in))
	if len(in.Highlights) > 0 {
		fmt.Fprintf(&b, "Highlights: %s\n", strings.Join(in.Highlights, "; "))
	}
	return b.String()
}

var typeNames = map[string]string{
	"HOUSE":      "Casa",
	"APARTMENT":  "Apartamento",
	"CONDO":      "Casa em condomínio",
	"LAND":       "Terreno",
	"COMMERCIAL": "Imóvel comercial",
	"STUDIO":     "Studio",
}

// FallbackDescription assembles a plain description from the listing facts.
func FallbackDescription(in ListingInput) Description {
	kind := typeNames[in.Type]
	if kind == "" {
		kind = "Imóvel"
	}

	var features []string
	if in.AreaM2 != nil && *in.AreaM2 > 0 {
		features = append(features, fmt.Sprintf("%.0f m²", *in.AreaM2))
	}
	if in.Bedrooms > 0 {
		features = append(features, plural(in.Bedrooms, "quarto", "quartos"))
	}
	if in.Bathrooms > 0 {
		features = append(features, plural(in.Bathrooms, "banheiro", "banheiros"))
	}
	if in.ParkingSpots > 0 {
		features = append(features, plural(in.ParkingSpots, "vaga", "vagas"))
	}

	action := "à venda"
	if in.Purpose == "RENT" {
		action = "para alugar"
	}

	text := fmt.Sprintf("%s %s em %s.", kind, action, location(in))
	if len(features) > 0 {
		text += " " + joinPT(features) + "."
	}
	if in.PriceCents > 0 {
		text += " Valor: " + FormatBRL(in.PriceCents) + "."
	}
	return Description{Text: text, Fallback: true}
}

func location(in ListingInput) string {
	var parts []string
	for _, p := range []string{in.Neighborhood, in.City} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	loc := strings.Join(parts, ", ")
	if in.State != "" {
		loc += " - " + in.State
	}
	return loc
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// joinPT joins with commas and a final "e".
func joinPT(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
}
