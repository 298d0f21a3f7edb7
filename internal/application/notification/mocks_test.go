package notification

import (
	"context"
	"sync"
	"time"

	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/shared/errors"
)

// fakeNotificationRepo collects saved feed rows.
type fakeNotificationRepo struct {
	mu     sync.Mutex
	rows   []*notification.Notification
	nextID uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) Save(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.SetID(r.nextID)
	r.nextID++
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID() == id {
			return n, nil
		}
	}
	return nil, errors.NewNotFoundError("notification not found")
}

func (r *fakeNotificationRepo) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*notification.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*notification.Notification
	for _, n := range r.rows {
		if n.UserID() == nil || *n.UserID() == userID {
			matched = append(matched, n)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uint, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID() == id && n.UserID() != nil && *n.UserID() == userID {
			n.MarkRead(time.Now().UTC())
			return nil
		}
	}
	return errors.NewNotFoundError("notification not found")
}

func (r *fakeNotificationRepo) all() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, len(r.rows))
	copy(out, r.rows)
	return out
}

// fakeSettingRepo answers from a fixed catalog.
type fakeSettingRepo struct {
	settings map[string]*notification.EventSetting
}

func newFakeSettingRepo(settings ...*notification.EventSetting) *fakeSettingRepo {
	repo := &fakeSettingRepo{settings: make(map[string]*notification.EventSetting)}
	for i, s := range settings {
		s.SetID(uint(i + 1))
		repo.settings[s.EventType()] = s
	}
	return repo
}

func (r *fakeSettingRepo) GetByEventType(ctx context.Context, eventType string) (*notification.EventSetting, error) {
	if s, ok := r.settings[eventType]; ok {
		return s, nil
	}
	return nil, errors.NewNotFoundError("notification setting not found")
}

func (r *fakeSettingRepo) List(ctx context.Context) ([]*notification.EventSetting, error) {
	out := make([]*notification.EventSetting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSettingRepo) Save(ctx context.Context, s *notification.EventSetting) error {
	r.settings[s.EventType()] = s
	return nil
}

func (r *fakeSettingRepo) Update(ctx context.Context, s *notification.EventSetting) error {
	r.settings[s.EventType()] = s
	return nil
}

// fakePreferenceRepo is keyed by user and event type.
type fakePreferenceRepo struct {
	prefs map[uint]map[string]*notification.Preference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[uint]map[string]*notification.Preference)}
}

func (r *fakePreferenceRepo) Get(ctx context.Context, userID uint, eventType string) (*notification.Preference, error) {
	if p, ok := r.prefs[userID][eventType]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("notification preference not found")
}

func (r *fakePreferenceRepo) ListForUser(ctx context.Context, userID uint) ([]*notification.Preference, error) {
	out := make([]*notification.Preference, 0)
	for _, p := range r.prefs[userID] {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePreferenceRepo) Upsert(ctx context.Context, p *notification.Preference) error {
	if r.prefs[p.UserID()] == nil {
		r.prefs[p.UserID()] = make(map[string]*notification.Preference)
	}
	r.prefs[p.UserID()][p.EventType()] = p
	return nil
}

// fakeUserRepo serves recipient lookups.
type fakeUserRepo struct {
	users  map[uint]*user.User
	admins map[uint][]uint
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*user.User), admins: make(map[uint][]uint)}
	for _, u := range users {
		repo.users[u.ID()] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *fakeUserRepo) Save(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) ListMemberships(ctx context.Context, userID uint) ([]*user.Membership, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListCompanyAdmins(ctx context.Context, companyID uint) ([]uint, error) {
	return r.admins[companyID], nil
}

// watcherOnlyTicketRepo stubs watcher listing; other calls are unused here.
type watcherOnlyTicketRepo struct {
	ticket.Repository
	watchers map[uint][]*ticket.Watcher
}

func (r *watcherOnlyTicketRepo) ListWatchers(ctx context.Context, ticketID uint) ([]*ticket.Watcher, error) {
	return r.watchers[ticketID], nil
}

// recordingEmailSender captures sent mail.
type recordingEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (s *recordingEmailSender) Send(ctx context.Context, to, subject, htmlBody, plainBody string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return "tracking-id", nil
}

// recordingSMSSender captures sent texts.
type recordingSMSSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSMSSender) Send(ctx context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phone)
	return nil
}
