package mets

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

// AuthorPairing selects how given and family names are joined.
type AuthorPairing int

const (
	// PairPositional joins the i-th given name of the dmdSec with its i-th
	// family name. Counts that differ per name silently mis-pair.
	PairPositional AuthorPairing = iota
	// PairStrict is PairPositional but fails unless every personal name
	// contributes exactly one given and one family part.
	PairStrict
	// PairNested reads the parts of each name entry directly.
	PairNested
)

var pairingNames = map[AuthorPairing]string{
	PairPositional: "positional",
	PairStrict:     "strict",
	PairNested:     "nested",
}

func (p AuthorPairing) String() string {
	if s, ok := pairingNames[p]; ok {
		return s
	}
	return fmt.Sprintf("AuthorPairing(%d)", int(p))
}

// ParseAuthorPairing parses "positional", "strict" or "nested".
// An empty string selects PairPositional.
func ParseAuthorPairing(s string) (AuthorPairing, error) {
	if s == "" {
		return PairPositional, nil
	}
	for p, name := range pairingNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return PairPositional, fmt.Errorf("unknown author pairing: %s (supported: positional, strict, nested)", s)
}

// ResolveAuthors returns "Given Family" for every personal name in the MODS
// record of metadataID, or nil when there are none.
func ResolveAuthors(doc *query.Document, metadataID string, pairing AuthorPairing) ([]string, error) {
	if metadataID == "" {
		return nil, nil
	}
	m := mods(metadataID)
	names := doc.Nodes(m.Child("name").Where("type", "personal"))
	if len(names) == 0 {
		return nil, nil
	}

	if pairing == PairNested {
		return nestedAuthors(names), nil
	}

	given := doc.Nodes(m.Child("name").Child("namePart").Where("type", "given"))
	family := doc.Nodes(m.Child("name").Child("namePart").Where("type", "family"))
	mismatch := &NameCountMismatchError{
		MetadataID: metadataID,
		Names:      len(names),
		Given:      len(given),
		Family:     len(family),
	}
	if pairing == PairStrict && (len(given) != len(names) || len(family) != len(names)) {
		return nil, mismatch
	}

	authors := make([]string, 0, len(names))
	for i := range names {
		if i >= len(given) || i >= len(family) {
			return nil, mismatch
		}
		authors = append(authors, query.Text(given[i])+" "+query.Text(family[i]))
	}
	return authors, nil
}

func nestedAuthors(names []*etree.Element) []string {
	var authors []string
	for _, name := range names {
		var given, family string
		for _, part := range name.ChildElements() {
			if part.Tag != "namePart" {
				continue
			}
			switch query.Attr(part, "type") {
			case "given":
				if given == "" {
					given = query.Text(part)
				}
			case "family":
				if family == "" {
					family = query.Text(part)
				}
			}
		}
		if full := strings.TrimSpace(given + " " + family); full != "" {
			authors = append(authors, full)
		}
	}
	if len(authors) == 0 {
		return nil
	}
	return authors
}
