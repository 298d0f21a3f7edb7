package ticket

import "context"

// Filter narrows List queries. Nil fields are skipped; Search matches the
// subject with a LIKE.
type Filter struct {
	Status         *string
	Priority       *string
	CompanyID      *uint
	ModuleSlug     *string
	AssignedUserID *uint
	RequesterID    *uint
	Search         string
	Limit          int
	Offset         int
	SortBy         string
	SortOrder      string
}

// Repository persists tickets, replies, and watchers as one row group.
// Implementations surface misses as NotFound errors and unique-key
// collisions on external references as Conflict.
type Repository interface {
	Save(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	List(ctx context.Context, filter Filter) ([]*Ticket, int64, error)

	AddReply(ctx context.Context, r *Reply) error
	ListReplies(ctx context.Context, ticketID uint, includeInternal bool) ([]*Reply, error)

	// AddWatcher is idempotent: inserting an existing pair succeeds without
	// a new row. RemoveWatcher on an absent pair succeeds silently. The
	// bool reports whether a row was actually inserted or deleted.
	AddWatcher(ctx context.Context, w *Watcher) (bool, error)
	RemoveWatcher(ctx context.Context, ticketID, userID uint) (bool, error)
	ListWatchers(ctx context.Context, ticketID uint) ([]*Watcher, error)

	// CountByStatus returns the number of tickets per referenced status slug,
	// used by the status engine to block deletions.
	CountByStatus(ctx context.Context, slugs []string) (map[string]int64, error)
	// RewriteStatus rewrites every ticket carrying oldSlug to newSlug and
	// returns the number of rows touched.
	RewriteStatus(ctx context.Context, oldSlug, newSlug string) (int64, error)
}

// StatusRepository persists the status catalog.
type StatusRepository interface {
	ListAll(ctx context.Context) ([]*StatusDefinition, error)
	GetBySlug(ctx context.Context, slug string) (*StatusDefinition, error)
	GetDefault(ctx context.Context) (*StatusDefinition, error)
	Save(ctx context.Context, def *StatusDefinition) error
	Update(ctx context.Context, def *StatusDefinition) error
	Delete(ctx context.Context, id uint) error
}
