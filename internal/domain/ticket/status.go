package ticket

import (
	"fmt"

	"github.com/praxisops/praxis/internal/shared/utils"
)

// StatusDefinition is one row of the status catalog. TechStatus is the
// canonical slug tickets reference; TechLabel faces operators and
// PublicStatus faces requesters. Exactly one row in a catalog is the default.
type StatusDefinition struct {
	id           uint
	techStatus   string
	techLabel    string
	publicStatus string
	isDefault    bool
}

func NewStatusDefinition(techStatus, techLabel, publicStatus string, isDefault bool) (*StatusDefinition, error) {
	if !utils.IsSlug(techStatus) {
		return nil, fmt.Errorf("tech status %q is not a canonical slug", techStatus)
	}
	if techLabel == "" {
		return nil, fmt.Errorf("tech label is required")
	}
	if publicStatus == "" {
		publicStatus = techLabel
	}

	return &StatusDefinition{
		techStatus:   techStatus,
		techLabel:    techLabel,
		publicStatus: publicStatus,
		isDefault:    isDefault,
	}, nil
}

func ReconstructStatusDefinition(id uint, techStatus, techLabel, publicStatus string, isDefault bool) *StatusDefinition {
	return &StatusDefinition{
		id:           id,
		techStatus:   techStatus,
		techLabel:    techLabel,
		publicStatus: publicStatus,
		isDefault:    isDefault,
	}
}

func (s *StatusDefinition) ID() uint             { return s.id }
func (s *StatusDefinition) TechStatus() string   { return s.techStatus }
func (s *StatusDefinition) TechLabel() string    { return s.techLabel }
func (s *StatusDefinition) PublicStatus() string { return s.publicStatus }
func (s *StatusDefinition) IsDefault() bool      { return s.isDefault }

func (s *StatusDefinition) SetID(id uint) {
	s.id = id
}

func (s *StatusDefinition) MarkDefault(isDefault bool) {
	s.isDefault = isDefault
}

// Rename swaps the canonical slug. Tickets referencing the old slug are
// rewritten by the status engine inside the same transaction.
func (s *StatusDefinition) Rename(techStatus, techLabel, publicStatus string) error {
	if !utils.IsSlug(techStatus) {
		return fmt.Errorf("tech status %q is not a canonical slug", techStatus)
	}
	if techLabel == "" {
		return fmt.Errorf("tech label is required")
	}
	if publicStatus == "" {
		publicStatus = techLabel
	}

	s.techStatus = techStatus
	s.techLabel = techLabel
	s.publicStatus = publicStatus
	return nil
}
