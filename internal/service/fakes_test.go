package service

import (
	"context"
	"fmt"
	"sync"

	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
)

// In-memory fakes for the repository interfaces. The fake transaction
// manager just runs the function; repositories that need to fail inside a
// transaction do so via their own error hooks. Mutating methods honor
// context cancellation the way a real driver would.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	debitErr  error
	creditErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[string]*models.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	copy := *user
	return &copy, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DebitCredits(ctx context.Context, id string, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.debitErr != nil {
		return f.debitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if user.Credits < amount {
		return &domain.InsufficientCreditsError{Required: amount, Balance: user.Credits}
	}
	user.Credits -= amount
	return nil
}

func (f *fakeUserRepo) CreditCredits(ctx context.Context, id string, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.creditErr != nil {
		return f.creditErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	user.Credits += amount
	return nil
}

func (f *fakeUserRepo) balance(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Credits
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project

	setCurrentErr error
}

func newFakeProjectRepo(projects ...*models.Project) *fakeProjectRepo {
	m := make(map[string]*models.Project)
	for _, p := range projects {
		m[p.ID] = p
	}
	return &fakeProjectRepo{projects: m}
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copy := *project
	return &copy, nil
}

func (f *fakeProjectRepo) GetOwned(ctx context.Context, id, userID string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok || project.UserID != userID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copy := *project
	return &copy, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, userID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) SetCurrent(ctx context.Context, id, code string, versionID *string) error {
	if f.setCurrentErr != nil {
		return f.setCurrentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	project.CurrentCode = code
	project.CurrentVersionID = versionID
	return nil
}

func (f *fakeProjectRepo) SetPublished(ctx context.Context, id string, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	project.IsPublished = published
	return nil
}

func (f *fakeProjectRepo) ListPublished(ctx context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.IsPublished {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok || project.UserID != userID {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) get(id string) *models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[id]
}

type fakeVersionRepo struct {
	mu       sync.Mutex
	versions []models.Version

	createErr error
}

func (f *fakeVersionRepo) Create(ctx context.Context, version *models.Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = append(f.versions, *version)
	return nil
}

func (f *fakeVersionRepo) GetByID(ctx context.Context, projectID, versionID string) (*models.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions {
		if v.ID == versionID && v.ProjectID == projectID {
			copy := v
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("version %s: %w", versionID, domain.ErrNotFound)
}

func (f *fakeVersionRepo) ListByProject(ctx context.Context, projectID string) ([]models.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Version
	for _, v := range f.versions {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVersionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.versions)
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
}

func (f *fakeMessageRepo) Append(ctx context.Context, message *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) ListByProject(ctx context.Context, projectID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// fakeTxManager runs the function directly; the fakes don't distinguish
// transactional from plain contexts
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// cancelingCompleter simulates a client disconnect mid-call: it cancels the
// request context and fails the way a context-honoring HTTP client would
type cancelingCompleter struct {
	cancel context.CancelFunc
}

func (c *cancelingCompleter) Complete(ctx context.Context, instructions, input string) (string, error) {
	c.cancel()
	return "", ctx.Err()
}

// expiringCompleter blocks until the per-call deadline fires
type expiringCompleter struct{}

func (expiringCompleter) Complete(ctx context.Context, instructions, input string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// scriptedCompleter returns canned responses per call, in order
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int

	instructions []string
	inputs       []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, instructions, input string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	c.instructions = append(c.instructions, instructions)
	c.inputs = append(c.inputs, input)

	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	var resp string
	if i < len(c.responses) {
		resp = c.responses[i]
	}
	return resp, err
}
