package mets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

// ResolvePageLabel derives a page range such as "23-42" from the ORDERLABEL
// of the first and last physical page. Equal labels collapse to one ("23").
// Returns "" when there are no pages or no labels.
func ResolvePageLabel(doc *query.Document, physicalIDs []string) string {
	first, last := ResolveFirstLastLabels(doc, physicalIDs)
	switch {
	case first == last:
		return first
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + "-" + last
}

// ResolveFirstLastLabels returns the trimmed ORDERLABEL of the first and last
// physical page.
func ResolveFirstLastLabels(doc *query.Document, physicalIDs []string) (first, last string) {
	if len(physicalIDs) == 0 {
		return "", ""
	}
	first = strings.TrimSpace(doc.Attribute(physicalDiv(physicalIDs[0]), "ORDERLABEL"))
	last = strings.TrimSpace(doc.Attribute(physicalDiv(physicalIDs[len(physicalIDs)-1]), "ORDERLABEL"))
	return first, last
}

// ResolveOrderNumbers returns the ORDER of each page as an 8-digit image
// number, e.g. "00000007".
func ResolveOrderNumbers(doc *query.Document, physicalIDs []string) ([]string, error) {
	numbers := make([]string, 0, len(physicalIDs))
	for _, id := range physicalIDs {
		raw := doc.Attribute(physicalDiv(id), "ORDER")
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, &MalformedOrderAttributeError{PhysicalID: id, Value: raw}
		}
		numbers = append(numbers, fmt.Sprintf("%08d", n))
	}
	return numbers, nil
}

// ResolveURNs returns the CONTENTIDS of each page. Pages without one get an
// empty entry so the result stays aligned with physicalIDs.
func ResolveURNs(doc *query.Document, physicalIDs []string) []string {
	urns := make([]string, 0, len(physicalIDs))
	for _, id := range physicalIDs {
		urns = append(urns, doc.Attribute(physicalDiv(id), "CONTENTIDS"))
	}
	return urns
}
