// Package status implements the ticket status catalog engine: seeding,
// validation, terminality, and atomic catalog replacement.
package status

import (
	"context"
	"sort"
	"strings"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/db"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// defaultSeed is the catalog installed on first boot.
var defaultSeed = []struct {
	slug      string
	label     string
	isDefault bool
}{
	{"open", "Open", true},
	{"in_progress", "In Progress", false},
	{"pending", "Pending", false},
	{"resolved", "Resolved", false},
	{"closed", "Closed", false},
}

// defaultTerminalSlugs closes tickets unless overridden by configuration.
var defaultTerminalSlugs = []string{"resolved", "closed"}

// StatusInput is one incoming row for ReplaceStatuses. OriginalSlug names
// the existing row this one renames; empty means match by TechStatus.
type StatusInput struct {
	TechStatus   string
	TechLabel    string
	PublicStatus string
	IsDefault    bool
	OriginalSlug string
}

type Engine struct {
	statuses  ticket.StatusRepository
	tickets   ticket.Repository
	txManager db.TxRunner
	terminal  map[string]struct{}
	logger    logger.Interface
}

func NewEngine(
	statuses ticket.StatusRepository,
	tickets ticket.Repository,
	txManager db.TxRunner,
	terminalSlugs []string,
	log logger.Interface,
) *Engine {
	if len(terminalSlugs) == 0 {
		terminalSlugs = defaultTerminalSlugs
	}
	terminal := make(map[string]struct{}, len(terminalSlugs))
	for _, slug := range terminalSlugs {
		terminal[utils.Slugify(slug)] = struct{}{}
	}

	return &Engine{
		statuses:  statuses,
		tickets:   tickets,
		txManager: txManager,
		terminal:  terminal,
		logger:    log,
	}
}

// IsTerminal reports whether assigning the slug closes a ticket.
func (e *Engine) IsTerminal(slug string) bool {
	_, ok := e.terminal[slug]
	return ok
}

// ListStatuses returns the catalog ordered by operator label.
func (e *Engine) ListStatuses(ctx context.Context) ([]*ticket.StatusDefinition, error) {
	defs, err := e.statuses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(defs, func(i, j int) bool {
		return strings.ToLower(defs[i].TechLabel()) < strings.ToLower(defs[j].TechLabel())
	})
	return defs, nil
}

// EnsureDefaults seeds the catalog on an empty database and repairs a
// missing default flag. Idempotent.
func (e *Engine) EnsureDefaults(ctx context.Context) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		defs, err := e.statuses.ListAll(ctx)
		if err != nil {
			return err
		}

		if len(defs) == 0 {
			for _, seed := range defaultSeed {
				def, err := ticket.NewStatusDefinition(seed.slug, seed.label, "", seed.isDefault)
				if err != nil {
					return err
				}
				if err := e.statuses.Save(ctx, def); err != nil {
					return err
				}
			}
			e.logger.Infow("seeded default status catalog", "count", len(defaultSeed))
			return nil
		}

		for _, def := range defs {
			if def.IsDefault() {
				return nil
			}
		}

		// Catalog exists but nothing is flagged: promote the first row.
		defs[0].MarkDefault(true)
		return e.statuses.Update(ctx, defs[0])
	})
}

// GetDefault returns the catalog's default status.
func (e *Engine) GetDefault(ctx context.Context) (*ticket.StatusDefinition, error) {
	return e.statuses.GetDefault(ctx)
}

// ValidateStatusChoice slugifies raw input and checks catalog membership.
// Unknown slugs come back as InvalidStatus.
func (e *Engine) ValidateStatusChoice(ctx context.Context, raw string) (*ticket.StatusDefinition, error) {
	slug := utils.Slugify(raw)
	if slug == "" {
		return nil, errors.NewInvalidStatusError("status slug is empty after normalization", raw)
	}

	def, err := e.statuses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewInvalidStatusError("unknown status", slug)
		}
		return nil, err
	}
	return def, nil
}

// ResolveStatusOrDefault validates raw when given, otherwise falls back to
// the catalog default.
func (e *Engine) ResolveStatusOrDefault(ctx context.Context, raw string) (*ticket.StatusDefinition, error) {
	if strings.TrimSpace(raw) == "" {
		return e.GetDefault(ctx)
	}
	return e.ValidateStatusChoice(ctx, raw)
}

// ReplaceStatuses swaps the whole catalog atomically. Renames rewrite every
// ticket carrying the original slug; deletions are blocked by live
// references (InUse, nothing committed); the exactly-one-default invariant
// is normalized with the first incoming default winning.
func (e *Engine) ReplaceStatuses(ctx context.Context, incoming []StatusInput) ([]*ticket.StatusDefinition, error) {
	if len(incoming) == 0 {
		return nil, errors.NewValidationError("catalog cannot be replaced with an empty list")
	}

	normalized, err := normalizeIncoming(incoming)
	if err != nil {
		return nil, err
	}

	var result []*ticket.StatusDefinition
	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := e.statuses.ListAll(ctx)
		if err != nil {
			return err
		}
		existingBySlug := make(map[string]*ticket.StatusDefinition, len(existing))
		for _, def := range existing {
			existingBySlug[def.TechStatus()] = def
		}

		kept := make(map[string]bool, len(normalized))

		for _, in := range normalized {
			source := in.TechStatus
			if in.OriginalSlug != "" {
				source = in.OriginalSlug
			}

			current, exists := existingBySlug[source]
			switch {
			case exists && in.OriginalSlug != "" && in.OriginalSlug != in.TechStatus:
				// Rename: update the row, then rewrite live references so no
				// ticket is left pointing at the retired slug.
				if err := current.Rename(in.TechStatus, in.TechLabel, in.PublicStatus); err != nil {
					return errors.NewValidationError(err.Error())
				}
				current.MarkDefault(in.IsDefault)
				if err := e.statuses.Update(ctx, current); err != nil {
					return err
				}
				rewritten, err := e.tickets.RewriteStatus(ctx, in.OriginalSlug, in.TechStatus)
				if err != nil {
					return err
				}
				if rewritten > 0 {
					e.logger.Infow("rewrote ticket statuses after rename",
						"from", in.OriginalSlug, "to", in.TechStatus, "tickets", rewritten)
				}
				kept[in.OriginalSlug] = true

			case exists:
				if err := current.Rename(in.TechStatus, in.TechLabel, in.PublicStatus); err != nil {
					return errors.NewValidationError(err.Error())
				}
				current.MarkDefault(in.IsDefault)
				if err := e.statuses.Update(ctx, current); err != nil {
					return err
				}
				kept[source] = true

			default:
				def, err := ticket.NewStatusDefinition(in.TechStatus, in.TechLabel, in.PublicStatus, in.IsDefault)
				if err != nil {
					return errors.NewValidationError(err.Error())
				}
				if err := e.statuses.Save(ctx, def); err != nil {
					return err
				}
			}
		}

		// Remaining rows are deletions; live references veto the whole batch.
		var doomed []*ticket.StatusDefinition
		var doomedSlugs []string
		for _, def := range existing {
			if !kept[def.TechStatus()] {
				doomed = append(doomed, def)
				doomedSlugs = append(doomedSlugs, def.TechStatus())
			}
		}

		if len(doomedSlugs) > 0 {
			counts, err := e.tickets.CountByStatus(ctx, doomedSlugs)
			if err != nil {
				return err
			}
			var inUse []string
			for _, slug := range doomedSlugs {
				if counts[slug] > 0 {
					inUse = append(inUse, slug)
				}
			}
			if len(inUse) > 0 {
				return errors.NewInUseError("statuses still referenced by tickets", inUse...)
			}
			for _, def := range doomed {
				if err := e.statuses.Delete(ctx, def.ID()); err != nil {
					return err
				}
			}
		}

		result, err = e.statuses.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeIncoming slugifies inputs, rejects duplicates, and enforces the
// exactly-one-default rule (first flagged wins; first row wins when none is).
func normalizeIncoming(incoming []StatusInput) ([]StatusInput, error) {
	out := make([]StatusInput, len(incoming))
	seen := make(map[string]struct{}, len(incoming))
	defaultSeen := false

	for i, in := range incoming {
		slug := utils.Slugify(in.TechStatus)
		if slug == "" {
			return nil, errors.NewValidationError("status slug is empty after normalization", in.TechStatus)
		}
		if strings.TrimSpace(in.TechLabel) == "" {
			return nil, errors.NewValidationError("status label is required", slug)
		}
		if _, dup := seen[slug]; dup {
			return nil, errors.NewValidationError("duplicate status slug", slug)
		}
		seen[slug] = struct{}{}

		isDefault := in.IsDefault && !defaultSeen
		if isDefault {
			defaultSeen = true
		}

		out[i] = StatusInput{
			TechStatus:   slug,
			TechLabel:    strings.TrimSpace(in.TechLabel),
			PublicStatus: strings.TrimSpace(in.PublicStatus),
			IsDefault:    isDefault,
			OriginalSlug: utils.Slugify(in.OriginalSlug),
		}
	}

	if !defaultSeen {
		out[0].IsDefault = true
	}

	return out, nil
}
