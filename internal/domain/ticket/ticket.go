package ticket

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxSubjectLength     = 255
	maxDescriptionLength = 65535

	// DefaultPriority is substituted when the caller supplies none.
	DefaultPriority = "normal"
)

// Ticket is the aggregate root of the ticket lifecycle. Status strings are
// catalog slugs; whether a slug is terminal is decided by the status engine
// and passed in, so the closedAt invariant is enforced here without the
// aggregate knowing the catalog.
type Ticket struct {
	id                uint
	subject           string
	description       string
	status            string
	priority          string
	category          string
	moduleSlug        string
	externalProvider  string
	externalReference string
	companyID         *uint
	requesterID       uint
	assignedUserID    *uint
	aiSummary         string
	aiSummaryStatus   string
	aiTags            []string
	aiTaggedAt        *time.Time
	createdAt         time.Time
	updatedAt         time.Time
	closedAt          *time.Time
}

// NewTicket creates a ticket. The status slug must already be resolved by the
// status engine; statusTerminal reports whether that slug closes the ticket.
func NewTicket(subject, description, status, priority string, requesterID uint, statusTerminal bool, now time.Time) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if len(subject) > maxSubjectLength {
		return nil, fmt.Errorf("subject exceeds maximum length of %d characters", maxSubjectLength)
	}
	if len(description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if status == "" {
		return nil, fmt.Errorf("status slug is required")
	}
	if priority == "" {
		priority = DefaultPriority
	}
	if requesterID == 0 {
		return nil, fmt.Errorf("requester ID is required")
	}
	if now.Location() != time.UTC {
		return nil, fmt.Errorf("timestamps must be UTC")
	}

	t := &Ticket{
		subject:     subject,
		description: description,
		status:      status,
		priority:    priority,
		requesterID: requesterID,
		aiTags:      []string{},
		createdAt:   now,
		updatedAt:   now,
	}

	if statusTerminal {
		closed := now
		t.closedAt = &closed
	}

	return t, nil
}

// ReconstructTicket rebuilds a ticket from persistence without revalidating
// business rules that only apply at creation time.
func ReconstructTicket(
	id uint,
	subject, description, status, priority, category, moduleSlug string,
	externalProvider, externalReference string,
	companyID *uint,
	requesterID uint,
	assignedUserID *uint,
	aiSummary, aiSummaryStatus string,
	aiTags []string,
	aiTaggedAt *time.Time,
	createdAt, updatedAt time.Time,
	closedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if status == "" {
		return nil, fmt.Errorf("status slug is required")
	}
	if aiTags == nil {
		aiTags = []string{}
	}

	return &Ticket{
		id:                id,
		subject:           subject,
		description:       description,
		status:            status,
		priority:          priority,
		category:          category,
		moduleSlug:        moduleSlug,
		externalProvider:  externalProvider,
		externalReference: externalReference,
		companyID:         companyID,
		requesterID:       requesterID,
		assignedUserID:    assignedUserID,
		aiSummary:         aiSummary,
		aiSummaryStatus:   aiSummaryStatus,
		aiTags:            aiTags,
		aiTaggedAt:        aiTaggedAt,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		closedAt:          closedAt,
	}, nil
}

func (t *Ticket) ID() uint                  { return t.id }
func (t *Ticket) Subject() string           { return t.subject }
func (t *Ticket) Description() string       { return t.description }
func (t *Ticket) Status() string            { return t.status }
func (t *Ticket) Priority() string          { return t.priority }
func (t *Ticket) Category() string          { return t.category }
func (t *Ticket) ModuleSlug() string        { return t.moduleSlug }
func (t *Ticket) ExternalProvider() string  { return t.externalProvider }
func (t *Ticket) ExternalReference() string { return t.externalReference }
func (t *Ticket) CompanyID() *uint          { return t.companyID }
func (t *Ticket) RequesterID() uint         { return t.requesterID }
func (t *Ticket) AssignedUserID() *uint     { return t.assignedUserID }
func (t *Ticket) AISummary() string         { return t.aiSummary }
func (t *Ticket) AISummaryStatus() string   { return t.aiSummaryStatus }
func (t *Ticket) AITaggedAt() *time.Time    { return t.aiTaggedAt }
func (t *Ticket) CreatedAt() time.Time      { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time      { return t.updatedAt }
func (t *Ticket) ClosedAt() *time.Time      { return t.closedAt }

func (t *Ticket) AITags() []string {
	tags := make([]string, len(t.aiTags))
	copy(tags, t.aiTags)
	return tags
}

// IsClosed reports whether the ticket currently carries a closed timestamp.
func (t *Ticket) IsClosed() bool {
	return t.closedAt != nil
}

// SetID assigns the persistence identity exactly once.
func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// ApplyStatus moves the ticket to a resolved catalog slug. statusTerminal
// reports whether the slug closes the ticket: terminal sets closedAt when
// missing, non-terminal clears it (reopen).
func (t *Ticket) ApplyStatus(slug string, statusTerminal bool, now time.Time) error {
	if slug == "" {
		return fmt.Errorf("status slug is required")
	}

	t.status = slug
	t.updatedAt = now

	if statusTerminal {
		if t.closedAt == nil {
			closed := now
			t.closedAt = &closed
		}
	} else {
		t.closedAt = nil
	}

	return nil
}

// RewriteStatusSlug replaces the stored slug during a catalog rename without
// touching timestamps or the closed state.
func (t *Ticket) RewriteStatusSlug(slug string) {
	t.status = slug
}

// UpdateSubject changes the subject. The same trim and length rules as
// creation apply.
func (t *Ticket) UpdateSubject(subject string, now time.Time) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if len(subject) > maxSubjectLength {
		return fmt.Errorf("subject exceeds maximum length of %d characters", maxSubjectLength)
	}
	t.subject = subject
	t.updatedAt = now
	return nil
}

func (t *Ticket) UpdateDescription(description string, now time.Time) error {
	if len(description) > maxDescriptionLength {
		return fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	t.description = description
	t.updatedAt = now
	return nil
}

func (t *Ticket) UpdatePriority(priority string, now time.Time) {
	if priority == "" {
		priority = DefaultPriority
	}
	t.priority = priority
	t.updatedAt = now
}

func (t *Ticket) UpdateCategory(category string, now time.Time) {
	t.category = category
	t.updatedAt = now
}

func (t *Ticket) SetModuleSlug(slug string, now time.Time) {
	t.moduleSlug = slug
	t.updatedAt = now
}

// SetExternalReference links the ticket to a third-party record. The
// (provider, reference) pair is unique across tickets; the repository
// surfaces a conflict on duplicates.
func (t *Ticket) SetExternalReference(provider, reference string, now time.Time) error {
	if provider == "" || reference == "" {
		return fmt.Errorf("external reference requires both provider and id")
	}
	t.externalProvider = provider
	t.externalReference = reference
	t.updatedAt = now
	return nil
}

func (t *Ticket) SetCompany(companyID *uint, now time.Time) {
	t.companyID = companyID
	t.updatedAt = now
}

func (t *Ticket) Assign(userID *uint, now time.Time) {
	t.assignedUserID = userID
	t.updatedAt = now
}

// SetAISummary stores annotation output from the AI collaborator. Content is
// opaque; only the shape is checked.
func (t *Ticket) SetAISummary(summary, summaryStatus string, now time.Time) {
	t.aiSummary = summary
	t.aiSummaryStatus = summaryStatus
	t.updatedAt = now
}

// SetAITags replaces the tag set, deduplicating while keeping the order of
// first appearance.
func (t *Ticket) SetAITags(tags []string, now time.Time) {
	seen := make(map[string]struct{}, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		deduped = append(deduped, tag)
	}

	t.aiTags = deduped
	tagged := now
	t.aiTaggedAt = &tagged
	t.updatedAt = now
}

// Touch bumps updatedAt. Reply persistence uses it so a reply advances the
// parent without reopening it.
func (t *Ticket) Touch(now time.Time) {
	t.updatedAt = now
}
