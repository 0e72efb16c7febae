// Package mets resolves the logical structure of a METS record delivered by
// OAI-PMH into denormalized structural elements.
//
// A logical division (structMap TYPE="LOGICAL") is joined to the pages it
// spans through the structLink table, and to its bibliographic metadata
// through its DMDID. All functions are read-only over the document.
package mets

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

// Options controls ResolveStructuralElements.
type Options struct {
	// Types keeps only divisions whose TYPE is listed. Nil or empty keeps all.
	Types []string
	// AuthorPairing is used when a metadata block has no display forms. Names
	// it cannot pair are left out rather than failing the element.
	AuthorPairing AuthorPairing
}

// ResolveIdentifiers returns the identifier triple of every logical division
// in pre-order document order. ok is false when the logical structure map has
// no divisions; a filter that matches nothing yields an empty, non-nil slice.
func ResolveIdentifiers(doc *query.Document, types []string) (ids []models.Identifiers, ok bool) {
	divs := doc.Nodes(logicalDivs())
	if len(divs) == 0 {
		return nil, false
	}

	keep := typeSet(types)
	ids = make([]models.Identifiers, 0, len(divs))
	for _, div := range divs {
		logicalID := query.Attr(div, "ID")
		if logicalID == "" {
			slog.Debug("Skipping logical div without ID", "type", query.Attr(div, "TYPE"))
			continue
		}
		if keep != nil {
			typ := query.Attr(div, "TYPE")
			if typ == "" || !keep[typ] {
				continue
			}
		}
		ids = append(ids, models.Identifiers{
			LogicalID:   logicalID,
			MetadataID:  query.Attr(div, "DMDID"),
			PhysicalIDs: ResolvePhysicalIDs(doc, logicalID),
		})
	}
	return ids, true
}

// ResolvePhysicalIDs returns the xlink:to endpoints of all smLinks leaving
// logicalID, in link table order.
func ResolvePhysicalIDs(doc *query.Document, logicalID string) []string {
	return doc.Attributes(linksFrom(logicalID), "xlink:to")
}

// ResolveStructuralElements resolves every (optionally filtered) logical
// division into a StructuralElement. A failure on one element fails the call.
func ResolveStructuralElements(doc *query.Document, opts Options) ([]models.StructuralElement, error) {
	ids, ok := ResolveIdentifiers(doc, opts.Types)
	if !ok {
		return nil, ErrNoStructureFound
	}

	elements := make([]models.StructuralElement, 0, len(ids))
	for _, id := range ids {
		el, err := resolveElement(doc, id, opts.AuthorPairing)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", id.LogicalID, err)
		}
		elements = append(elements, el)
	}

	slog.Debug("Resolved structural elements", "count", len(elements), "filter", opts.Types)
	return elements, nil
}

func resolveElement(doc *query.Document, id models.Identifiers, pairing AuthorPairing) (models.StructuralElement, error) {
	el := models.StructuralElement{
		Identifiers: id,
		Type:        doc.Attribute(logicalDiv(id.LogicalID), "TYPE"),
		PageLabel:   ResolvePageLabel(doc, id.PhysicalIDs),
	}
	if id.MetadataID == "" {
		return el, nil
	}

	m := mods(id.MetadataID)
	el.Title = doc.Text(m.Child("titleInfo").Child("title"))
	el.SubTitle = doc.Text(m.Child("titleInfo").Child("subTitle"))
	el.Abstract = doc.Text(m.Child("abstract"))
	el.Language = doc.Text(m.Child("language").Child("languageTerm"))
	el.Authors = doc.Texts(m.Child("name").Child("displayForm"))

	// Authors are optional: names that cannot be paired leave them unset.
	if len(el.Authors) == 0 {
		authors, err := ResolveAuthors(doc, id.MetadataID, pairing)
		switch {
		case errors.Is(err, ErrNameCountMismatch):
			slog.Debug("Skipping unpaired author names", "logical_id", id.LogicalID, "err", err)
		case err != nil:
			return el, err
		default:
			el.Authors = authors
		}
	}
	return el, nil
}

// ResolvePages collects the image numbers, URNs and first/last labels of one
// structural element.
func ResolvePages(doc *query.Document, id models.Identifiers) (models.PageInfo, error) {
	orders, err := ResolveOrderNumbers(doc, id.PhysicalIDs)
	if err != nil {
		return models.PageInfo{}, err
	}
	first, last := ResolveFirstLastLabels(doc, id.PhysicalIDs)
	return models.PageInfo{
		LogicalID:    id.LogicalID,
		OrderNumbers: orders,
		URNs:         ResolveURNs(doc, id.PhysicalIDs),
		FirstLabel:   first,
		LastLabel:    last,
	}, nil
}

func typeSet(types []string) map[string]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
