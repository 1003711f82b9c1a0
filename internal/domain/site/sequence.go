package site

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// PrefixWidth is the fixed identifier prefix width.
	PrefixWidth = 4
	// NumberWidth is the zero-padded width of the sequence part.
	NumberWidth = 5
	// FallbackPrefix is used when a site name yields no letters at all.
	FallbackPrefix = "SITE"

	prefixFiller = 'X'
)

// Allocation is the result of issuing one ticket identifier for a site.
type Allocation struct {
	Identifier string
	Sequence   uint64
	Prefix     string
}

// SequenceAllocator issues the next ticket number for a site, atomically,
// even under concurrent callers. Numbers for one site are strictly
// increasing with no duplicates; the first allocation lazily creates the
// underlying counter row.
type SequenceAllocator interface {
	Allocate(ctx context.Context, siteID uint, siteName string) (*Allocation, error)
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DerivePrefix builds the identifier prefix from a site name: accents are
// folded away, non-letters dropped, the rest uppercased and fitted to
// PrefixWidth (truncated or filled with X). "Meadow Solar Farm" -> "MEAD".
func DerivePrefix(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == PrefixWidth {
				break
			}
		}
	}

	if b.Len() == 0 {
		return FallbackPrefix
	}
	for b.Len() < PrefixWidth {
		b.WriteByte(prefixFiller)
	}
	return b.String()
}

// FormatIdentifier renders the human-readable ticket identifier:
// prefix plus the zero-padded sequence number, e.g. ACME00001.
func FormatIdentifier(prefix string, sequence uint64) string {
	return fmt.Sprintf("%s%0*d", prefix, NumberWidth, sequence)
}
