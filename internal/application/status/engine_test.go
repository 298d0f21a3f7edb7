package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

func newTestEngine(statuses *fakeStatusRepo, tickets *mockTicketRepo, terminal []string) *Engine {
	if tickets == nil {
		tickets = &mockTicketRepo{}
	}
	return NewEngine(statuses, tickets, passthroughTx{}, terminal, logger.NewLogger())
}

func mustStatus(t *testing.T, slug, label string, isDefault bool) *ticket.StatusDefinition {
	t.Helper()
	def, err := ticket.NewStatusDefinition(slug, label, "", isDefault)
	require.NoError(t, err)
	return def
}

func TestEngine_EnsureDefaults_SeedsEmptyCatalog(t *testing.T) {
	repo := newFakeStatusRepo()
	engine := newTestEngine(repo, nil, nil)

	require.NoError(t, engine.EnsureDefaults(context.Background()))

	defs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 5)

	def, err := repo.GetDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "open", def.TechStatus())

	// Second call must not duplicate the seed.
	require.NoError(t, engine.EnsureDefaults(context.Background()))
	defs, err = repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 5)
}

func TestEngine_EnsureDefaults_RepairsMissingDefaultFlag(t *testing.T) {
	repo := newFakeStatusRepo(
		mustStatus(t, "open", "Open", false),
		mustStatus(t, "closed", "Closed", false),
	)
	engine := newTestEngine(repo, nil, nil)

	require.NoError(t, engine.EnsureDefaults(context.Background()))

	def, err := repo.GetDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "open", def.TechStatus())
}

func TestEngine_ValidateStatusChoice(t *testing.T) {
	repo := newFakeStatusRepo(
		mustStatus(t, "open", "Open", true),
		mustStatus(t, "in_progress", "In Progress", false),
	)
	engine := newTestEngine(repo, nil, nil)

	tests := []struct {
		name     string
		raw      string
		wantSlug string
		wantErr  errors.ErrorType
	}{
		{name: "exact slug", raw: "open", wantSlug: "open"},
		{name: "label form is slugified", raw: "In Progress", wantSlug: "in_progress"},
		{name: "unknown slug", raw: "awaiting_vendor", wantErr: errors.ErrorTypeInvalidStatus},
		{name: "empty after normalization", raw: "  --- ", wantErr: errors.ErrorTypeInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := engine.ValidateStatusChoice(context.Background(), tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				appErr := errors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantErr, appErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, def.TechStatus())
		})
	}
}

func TestEngine_ResolveStatusOrDefault(t *testing.T) {
	repo := newFakeStatusRepo(
		mustStatus(t, "open", "Open", true),
		mustStatus(t, "closed", "Closed", false),
	)
	engine := newTestEngine(repo, nil, nil)

	def, err := engine.ResolveStatusOrDefault(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "open", def.TechStatus())

	def, err = engine.ResolveStatusOrDefault(context.Background(), "Closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", def.TechStatus())
}

func TestEngine_IsTerminal(t *testing.T) {
	repo := newFakeStatusRepo()

	defaults := newTestEngine(repo, nil, nil)
	assert.True(t, defaults.IsTerminal("closed"))
	assert.True(t, defaults.IsTerminal("resolved"))
	assert.False(t, defaults.IsTerminal("open"))

	custom := newTestEngine(repo, nil, []string{"done"})
	assert.True(t, custom.IsTerminal("done"))
	assert.False(t, custom.IsTerminal("closed"))
}

func TestEngine_ReplaceStatuses_RenameRewritesTickets(t *testing.T) {
	repo := newFakeStatusRepo(
		mustStatus(t, "open", "Open", true),
		mustStatus(t, "pending", "Pending", false),
	)

	var rewrites [][2]string
	tickets := &mockTicketRepo{
		RewriteStatusFunc: func(ctx context.Context, oldSlug, newSlug string) (int64, error) {
			rewrites = append(rewrites, [2]string{oldSlug, newSlug})
			return 3, nil
		},
	}
	engine := newTestEngine(repo, tickets, nil)

	result, err := engine.ReplaceStatuses(context.Background(), []StatusInput{
		{TechStatus: "open", TechLabel: "Open", IsDefault: true},
		{TechStatus: "awaiting_vendor", TechLabel: "Awaiting Vendor", OriginalSlug: "pending"},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.Len(t, rewrites, 1)
	assert.Equal(t, [2]string{"pending", "awaiting_vendor"}, rewrites[0])

	_, err = repo.GetBySlug(context.Background(), "pending")
	assert.True(t, errors.IsNotFound(err), "renamed slug must be gone from the catalog")

	def, err := repo.GetBySlug(context.Background(), "awaiting_vendor")
	require.NoError(t, err)
	assert.Equal(t, "Awaiting Vendor", def.TechLabel())
}

func TestEngine_ReplaceStatuses_DeleteBlockedByLiveTickets(t *testing.T) {
	repo := newFakeStatusRepo(
		mustStatus(t, "open", "Open", true),
		mustStatus(t, "pending", "Pending", false),
	)
	tickets := &mockTicketRepo{
		CountByStatusFunc: func(ctx context.Context, slugs []string) (map[string]int64, error) {
			return map[string]int64{"pending": 4}, nil
		},
	}
	engine := newTestEngine(repo, tickets, nil)

	_, err := engine.ReplaceStatuses(context.Background(), []StatusInput{
		{TechStatus: "open", TechLabel: "Open", IsDefault: true},
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeInUse, appErr.Type)
	assert.Contains(t, appErr.Details, "pending")
}

func TestEngine_ReplaceStatuses_ExactlyOneDefault(t *testing.T) {
	t.Run("none flagged promotes the first row", func(t *testing.T) {
		repo := newFakeStatusRepo()
		engine := newTestEngine(repo, nil, nil)

		result, err := engine.ReplaceStatuses(context.Background(), []StatusInput{
			{TechStatus: "triage", TechLabel: "Triage"},
			{TechStatus: "done", TechLabel: "Done"},
		})
		require.NoError(t, err)

		var defaults []string
		for _, def := range result {
			if def.IsDefault() {
				defaults = append(defaults, def.TechStatus())
			}
		}
		assert.Equal(t, []string{"triage"}, defaults)
	})

	t.Run("first flagged default wins", func(t *testing.T) {
		repo := newFakeStatusRepo()
		engine := newTestEngine(repo, nil, nil)

		result, err := engine.ReplaceStatuses(context.Background(), []StatusInput{
			{TechStatus: "triage", TechLabel: "Triage"},
			{TechStatus: "active", TechLabel: "Active", IsDefault: true},
			{TechStatus: "done", TechLabel: "Done", IsDefault: true},
		})
		require.NoError(t, err)

		var defaults []string
		for _, def := range result {
			if def.IsDefault() {
				defaults = append(defaults, def.TechStatus())
			}
		}
		assert.Equal(t, []string{"active"}, defaults)
	})
}

func TestEngine_ReplaceStatuses_RejectsBadInput(t *testing.T) {
	repo := newFakeStatusRepo()
	engine := newTestEngine(repo, nil, nil)

	_, err := engine.ReplaceStatuses(context.Background(), nil)
	require.Error(t, err)

	_, err = engine.ReplaceStatuses(context.Background(), []StatusInput{
		{TechStatus: "open", TechLabel: "Open"},
		{TechStatus: "Open", TechLabel: "Also Open"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetAppError(err).Type)
}
