package merge

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"smartbeaver/internal/contract"
)

// metadataValue is the constructor initializer for a metadata extension
// field. PSP22 maps name and symbol to Option literals and decimals to its
// numeric value; every other field, and every PSP34 field, starts at 0.
func metadataValue(std contract.Standard, field string, md *contract.TokenMetadata) string {
	if std != contract.PSP22 {
		return "0"
	}
	if md == nil {
		md = &contract.TokenMetadata{}
	}
	switch field {
	case "name":
		return optionLiteral(md.Name)
	case "symbol":
		return optionLiteral(md.Symbol)
	case "decimals":
		if md.Decimals != nil {
			return strconv.Itoa(int(*md.Decimals))
		}
	}
	return "0"
}

func optionLiteral(s *string) string {
	if s == nil {
		return "None"
	}
	return "Some(" + rustQuote(*s) + ")"
}

// rustQuote renders s as a Rust string literal. Printable runes are kept
// as is; other runes use the `\u{..}` escape, which Rust accepts for any
// scalar value.
func rustQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\u{%x}`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
