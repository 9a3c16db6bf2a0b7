package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/services"
)

const (
	testUserID    = "user-1"
	testProjectID = "project-1"
	testCost      = 5
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type revisionFixture struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	versions *fakeVersionRepo
	messages *fakeMessageRepo
	llm      *scriptedCompleter
	svc      services.RevisionService
}

func newRevisionFixture(credits int, llm *scriptedCompleter) *revisionFixture {
	f := &revisionFixture{
		users: newFakeUserRepo(&models.User{
			ID:      testUserID,
			Credits: credits,
		}),
		projects: newFakeProjectRepo(&models.Project{
			ID:          testProjectID,
			UserID:      testUserID,
			Name:        "portfolio",
			CurrentCode: "<html>old</html>",
		}),
		versions: &fakeVersionRepo{},
		messages: &fakeMessageRepo{},
		llm:      llm,
	}
	f.svc = NewRevisionService(
		f.users, f.projects, f.versions, f.messages,
		f.llm, fakeTxManager{},
		testCost, time.Minute, testLogger(),
	)
	return f
}

func makeRequest(message string) *services.RevisionRequest {
	return &services.RevisionRequest{
		UserID:    testUserID,
		ProjectID: testProjectID,
		Message:   message,
	}
}

func TestMakeRevision_Success(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"A detailed contact form page with validation",
		"```html\n<html><body><form></form></body></html>\n```",
	}}
	f := newRevisionFixture(10, llm)

	if err := f.svc.MakeRevision(context.Background(), makeRequest("add a contact form")); err != nil {
		t.Fatalf("MakeRevision failed: %v", err)
	}

	// Balance: 10 - 5
	if got := f.users.balance(testUserID); got != 5 {
		t.Errorf("expected balance 5, got %d", got)
	}

	// Exactly one new version with normalized code
	if f.versions.count() != 1 {
		t.Fatalf("expected 1 version, got %d", f.versions.count())
	}
	version := f.versions.versions[0]
	if version.Code != "<html><body><form></form></body></html>" {
		t.Errorf("version code not normalized: %q", version.Code)
	}
	if version.Description != "changes made" {
		t.Errorf("unexpected version description: %q", version.Description)
	}

	// Pointer moved with the commit
	project := f.projects.get(testProjectID)
	if project.CurrentCode != version.Code {
		t.Errorf("current_code not updated: %q", project.CurrentCode)
	}
	if project.CurrentVersionID == nil || *project.CurrentVersionID != version.ID {
		t.Errorf("current_version_id not pointing at new version")
	}

	// Transcript: user msg, enhanced echo, progress notice, success notice
	msgs, _ := f.messages.ListByProject(context.Background(), testProjectID)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 conversation entries, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "add a contact form" {
		t.Errorf("first entry should echo the user instruction: %+v", msgs[0])
	}
	for _, m := range msgs[1:] {
		if m.Role != models.RoleAssistant {
			t.Errorf("expected assistant role, got %q", m.Role)
		}
	}
	if !strings.Contains(msgs[1].Content, "enhanced your prompt") {
		t.Errorf("second entry should echo the enhanced prompt: %q", msgs[1].Content)
	}

	// Two external calls: enhancement then generation, with prior code as context
	if llm.calls != 2 {
		t.Fatalf("expected 2 external calls, got %d", llm.calls)
	}
	if !strings.Contains(llm.inputs[1], "<html>old</html>") {
		t.Errorf("generation input missing current code: %q", llm.inputs[1])
	}
}

func TestMakeRevision_InsufficientCredits(t *testing.T) {
	llm := &scriptedCompleter{}
	f := newRevisionFixture(3, llm)

	err := f.svc.MakeRevision(context.Background(), makeRequest("add a contact form"))
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	// Terminal with no side effects: balance intact, no log entries, no versions
	if got := f.users.balance(testUserID); got != 3 {
		t.Errorf("balance changed on rejection: %d", got)
	}
	if f.messages.count() != 0 {
		t.Errorf("log entries added on pre-debit rejection: %d", f.messages.count())
	}
	if f.versions.count() != 0 {
		t.Errorf("version created on rejection")
	}
	if llm.calls != 0 {
		t.Errorf("external calls made on rejection: %d", llm.calls)
	}
}

func TestMakeRevision_BlankInstruction(t *testing.T) {
	f := newRevisionFixture(10, &scriptedCompleter{})

	err := f.svc.MakeRevision(context.Background(), makeRequest("   \n\t "))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if f.users.balance(testUserID) != 10 {
		t.Errorf("balance changed on invalid input")
	}
	if f.messages.count() != 0 {
		t.Errorf("log entries added on invalid input")
	}
}

func TestMakeRevision_UnknownUser(t *testing.T) {
	f := newRevisionFixture(10, &scriptedCompleter{})

	req := makeRequest("add a navbar")
	req.UserID = "stranger"
	err := f.svc.MakeRevision(context.Background(), req)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMakeRevision_ProjectNotFound(t *testing.T) {
	f := newRevisionFixture(10, &scriptedCompleter{})

	req := makeRequest("add a navbar")
	req.ProjectID = "missing"
	err := f.svc.MakeRevision(context.Background(), req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.users.balance(testUserID) != 10 {
		t.Errorf("balance changed on missing project")
	}
}

func TestMakeRevision_ForeignProject(t *testing.T) {
	f := newRevisionFixture(10, &scriptedCompleter{})
	f.users.users["other"] = &models.User{ID: "other", Credits: 10}

	req := makeRequest("add a navbar")
	req.UserID = "other"
	err := f.svc.MakeRevision(context.Background(), req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign project, got %v", err)
	}
	if f.users.balance("other") != 10 {
		t.Errorf("balance changed on foreign project")
	}
	if f.messages.count() != 0 {
		t.Errorf("log entries added on foreign project")
	}
}

func TestMakeRevision_EnhancementFailure(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("upstream 503")}}
	f := newRevisionFixture(10, llm)

	err := f.svc.MakeRevision(context.Background(), makeRequest("add a hero section"))
	if !errors.Is(err, domain.ErrEnhancementFailed) {
		t.Fatalf("expected ErrEnhancementFailed, got %v", err)
	}

	// Refunded exactly; no version; pointer untouched
	if got := f.users.balance(testUserID); got != 10 {
		t.Errorf("expected refunded balance 10, got %d", got)
	}
	if f.versions.count() != 0 {
		t.Errorf("version created on enhancement failure")
	}
	project := f.projects.get(testProjectID)
	if project.CurrentCode != "<html>old</html>" || project.CurrentVersionID != nil {
		t.Errorf("project mutated on enhancement failure")
	}

	// Transcript: user message plus a failure notice
	msgs, _ := f.messages.ListByProject(context.Background(), testProjectID)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 conversation entries, got %d", len(msgs))
	}
	if msgs[1].Role != models.RoleAssistant || !strings.Contains(msgs[1].Content, "unable to generate") {
		t.Errorf("expected failure notice, got %+v", msgs[1])
	}
}

func TestMakeRevision_ClientDisconnectStillRefunds(t *testing.T) {
	// A disconnect mid-call cancels the request context. The debit is
	// already taken by then, so the failure notice and refund must not
	// ride the dead context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newRevisionFixture(10, &scriptedCompleter{})
	svc := NewRevisionService(
		f.users, f.projects, f.versions, f.messages,
		&cancelingCompleter{cancel: cancel}, fakeTxManager{},
		testCost, time.Minute, testLogger(),
	)

	err := svc.MakeRevision(ctx, makeRequest("add a footer"))
	if !errors.Is(err, domain.ErrEnhancementFailed) {
		t.Fatalf("expected ErrEnhancementFailed, got %v", err)
	}

	if got := f.users.balance(testUserID); got != 10 {
		t.Errorf("refund lost on canceled request: balance %d, want 10", got)
	}
	if f.versions.count() != 0 {
		t.Errorf("version created on canceled request")
	}

	msgs, _ := f.messages.ListByProject(context.Background(), testProjectID)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 conversation entries, got %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "unable to generate") {
		t.Errorf("expected failure notice, got %q", msgs[1].Content)
	}
}

func TestMakeRevision_CallDeadlineRefunds(t *testing.T) {
	f := newRevisionFixture(10, &scriptedCompleter{})
	svc := NewRevisionService(
		f.users, f.projects, f.versions, f.messages,
		expiringCompleter{}, fakeTxManager{},
		testCost, time.Millisecond, testLogger(),
	)

	err := svc.MakeRevision(context.Background(), makeRequest("add a footer"))
	if !errors.Is(err, domain.ErrEnhancementFailed) {
		t.Fatalf("expected ErrEnhancementFailed, got %v", err)
	}
	if got := f.users.balance(testUserID); got != 10 {
		t.Errorf("expected refunded balance 10, got %d", got)
	}

	msgs, _ := f.messages.ListByProject(context.Background(), testProjectID)
	if len(msgs) != 2 || !strings.Contains(msgs[1].Content, "unable to generate") {
		t.Fatalf("expected failure notice after deadline, got %+v", msgs)
	}
}

func TestMakeRevision_EmptyGeneration(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"A detailed hero section",
		"   ",
	}}
	f := newRevisionFixture(10, llm)

	err := f.svc.MakeRevision(context.Background(), makeRequest("add a hero section"))
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	// Balance restored exactly
	if got := f.users.balance(testUserID); got != 10 {
		t.Errorf("expected refunded balance 10, got %d", got)
	}
	if f.versions.count() != 0 {
		t.Errorf("version created on empty generation")
	}

	project := f.projects.get(testProjectID)
	if project.CurrentCode != "<html>old</html>" {
		t.Errorf("current_code changed on empty generation")
	}

	// Transcript: user msg, enhanced echo, progress notice, failure notice
	msgs, _ := f.messages.ListByProject(context.Background(), testProjectID)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 conversation entries, got %d", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Content, "unable to generate") {
		t.Errorf("expected failure notice last, got %q", last.Content)
	}
}

func TestMakeRevision_CommitFailureRefunds(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"An enhanced prompt",
		"<html>new</html>",
	}}
	f := newRevisionFixture(10, llm)
	f.versions.createErr = errors.New("disk full")

	err := f.svc.MakeRevision(context.Background(), makeRequest("redesign the footer"))
	if err == nil {
		t.Fatal("expected commit failure")
	}

	if got := f.users.balance(testUserID); got != 10 {
		t.Errorf("expected refunded balance 10, got %d", got)
	}
	project := f.projects.get(testProjectID)
	if project.CurrentCode != "<html>old</html>" || project.CurrentVersionID != nil {
		t.Errorf("project mutated despite failed commit")
	}
}

func TestMakeRevision_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	// One user, 7 credits, two concurrent attempts at 5 each: exactly one
	// may pass the debit gate.
	llm := &scriptedCompleter{responses: []string{
		"enhanced", "<html>a</html>", "enhanced", "<html>b</html>",
	}}
	f := newRevisionFixture(7, llm)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- f.svc.MakeRevision(context.Background(), makeRequest("tweak colors"))
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			if !errors.Is(err, domain.ErrInsufficientCredits) {
				t.Errorf("unexpected error: %v", err)
			}
			failures++
		}
	}

	if failures != 1 {
		t.Fatalf("expected exactly one rejected attempt, got %d", failures)
	}
	if got := f.users.balance(testUserID); got != 2 {
		t.Errorf("expected final balance 2, got %d", got)
	}
	if got := f.users.balance(testUserID); got < 0 {
		t.Errorf("balance went negative: %d", got)
	}
}
