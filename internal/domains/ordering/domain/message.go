package domain

import (
	"strconv"
	"strings"

	"github.com/Apurer/go-gin-menu-builder/internal/shared/money"
)

const FallbackLocale = "id"

// Phrases are the locale dependent parts of an order message.
type Phrases struct {
	Greeting   string
	TotalLabel string
}

var phrases = map[string]Phrases{
	"id": {Greeting: "Halo, saya ingin memesan:", TotalLabel: "Total"},
	"en": {Greeting: "Hello, I would like to order:", TotalLabel: "Total"},
}

// SupportsLocale reports whether an order message can be rendered in locale.
func SupportsLocale(locale string) bool {
	_, ok := phrases[strings.ToLower(strings.TrimSpace(locale))]
	return ok
}

// PhrasesFor returns the phrases of locale, or of FallbackLocale when unknown.
func PhrasesFor(locale string) Phrases {
	if p, ok := phrases[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return p
	}
	return phrases[FallbackLocale]
}

// BuildOrderMessage renders a priced cart as the text handed to the messaging channel.
// Identical inputs always give identical output.
func BuildOrderMessage(summary Summary, locale string) string {
	p := PhrasesFor(locale)
	var b strings.Builder
	b.WriteString(p.Greeting)
	b.WriteString("\n\n")
	for i, line := range summary.Lines {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(line.Name)
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(line.Quantity))
		b.WriteString(") - ")
		b.WriteString(money.Format(line.SubtotalMinor))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(p.TotalLabel)
	b.WriteString(": ")
	b.WriteString(money.Format(summary.TotalMinor))
	return b.String()
}
