package status

import (
	"context"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/errors"
)

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeStatusRepo is a stateful in-memory catalog.
type fakeStatusRepo struct {
	rows   []*ticket.StatusDefinition
	nextID uint
}

func newFakeStatusRepo(defs ...*ticket.StatusDefinition) *fakeStatusRepo {
	repo := &fakeStatusRepo{nextID: 1}
	for _, def := range defs {
		_ = repo.Save(context.Background(), def)
	}
	return repo
}

func (r *fakeStatusRepo) ListAll(ctx context.Context) ([]*ticket.StatusDefinition, error) {
	out := make([]*ticket.StatusDefinition, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *fakeStatusRepo) GetBySlug(ctx context.Context, slug string) (*ticket.StatusDefinition, error) {
	for _, def := range r.rows {
		if def.TechStatus() == slug {
			return def, nil
		}
	}
	return nil, errors.NewNotFoundError("ticket status not found")
}

func (r *fakeStatusRepo) GetDefault(ctx context.Context) (*ticket.StatusDefinition, error) {
	for _, def := range r.rows {
		if def.IsDefault() {
			return def, nil
		}
	}
	return nil, errors.NewNotFoundError("no default ticket status configured")
}

func (r *fakeStatusRepo) Save(ctx context.Context, def *ticket.StatusDefinition) error {
	def.SetID(r.nextID)
	r.nextID++
	r.rows = append(r.rows, def)
	return nil
}

func (r *fakeStatusRepo) Update(ctx context.Context, def *ticket.StatusDefinition) error {
	for i, row := range r.rows {
		if row.ID() == def.ID() {
			r.rows[i] = def
			return nil
		}
	}
	return errors.NewNotFoundError("ticket status not found")
}

func (r *fakeStatusRepo) Delete(ctx context.Context, id uint) error {
	for i, row := range r.rows {
		if row.ID() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("ticket status not found")
}

// mockTicketRepo stubs only the catalog-facing queries the engine uses.
type mockTicketRepo struct {
	ticket.Repository

	CountByStatusFunc func(ctx context.Context, slugs []string) (map[string]int64, error)
	RewriteStatusFunc func(ctx context.Context, oldSlug, newSlug string) (int64, error)
}

func (m *mockTicketRepo) CountByStatus(ctx context.Context, slugs []string) (map[string]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, slugs)
	}
	return map[string]int64{}, nil
}

func (m *mockTicketRepo) RewriteStatus(ctx context.Context, oldSlug, newSlug string) (int64, error) {
	if m.RewriteStatusFunc != nil {
		return m.RewriteStatusFunc(ctx, oldSlug, newSlug)
	}
	return 0, nil
}
