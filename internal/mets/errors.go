package mets

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStructureFound is returned when the logical structure map has no
	// divisions at all.
	ErrNoStructureFound = errors.New("mets: no logical structure found")
	// ErrMalformedOrderAttribute matches every *MalformedOrderAttributeError.
	ErrMalformedOrderAttribute = errors.New("mets: malformed ORDER attribute")
	// ErrNameCountMismatch matches every *NameCountMismatchError.
	ErrNameCountMismatch = errors.New("mets: given/family name count mismatch")
)

// MalformedOrderAttributeError reports a physical page whose ORDER attribute
// is missing or not a non-negative integer.
type MalformedOrderAttributeError struct {
	PhysicalID string
	Value      string
}

func (e *MalformedOrderAttributeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("mets: physical div %q has no ORDER attribute", e.PhysicalID)
	}
	return fmt.Sprintf("mets: physical div %q has malformed ORDER %q", e.PhysicalID, e.Value)
}

func (e *MalformedOrderAttributeError) Is(target error) bool {
	return target == ErrMalformedOrderAttribute
}

// NameCountMismatchError reports personal names whose given and family parts
// cannot be paired.
type NameCountMismatchError struct {
	MetadataID string
	Names      int
	Given      int
	Family     int
}

func (e *NameCountMismatchError) Error() string {
	return fmt.Sprintf("mets: dmdSec %q has %d personal names but %d given and %d family name parts",
		e.MetadataID, e.Names, e.Given, e.Family)
}

func (e *NameCountMismatchError) Is(target error) bool {
	return target == ErrNameCountMismatch
}
