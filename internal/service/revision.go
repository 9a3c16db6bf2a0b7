package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"siteforge/internal/domain"
	"siteforge/internal/domain/models"
	"siteforge/internal/domain/repositories"
	"siteforge/internal/domain/services"
	"siteforge/internal/llm"
	"siteforge/internal/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Assistant messages appended by the workflow. The log is a user-visible
// transcript, so the wording is part of the product surface.
const (
	msgEnhancedPrompt   = "I've enhanced your prompt to: %q"
	msgMakingChanges    = "Now making changes to your website..."
	msgGenerationFailed = "I'm sorry, but I was unable to generate the website code."
	msgChangesMade      = "I've made changes to your website! You can now preview it."

	versionDescription = "changes made"
)

// revisionService implements the RevisionService interface.
//
// The workflow is a fixed sequence: authorize, afford, validate, load, log
// the user message, debit, enhance, generate, normalize, commit. Everything
// before the debit has no side effects beyond the user's log entry; every
// failure after the debit refunds it. The commit (version insert, success
// message, current-pointer update) is one transaction.
type revisionService struct {
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	versionRepo repositories.VersionRepository
	messageRepo repositories.MessageRepository
	completer   services.Completer
	txManager   repositories.TransactionManager
	cost        int
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewRevisionService creates a new revision service
func NewRevisionService(
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	versionRepo repositories.VersionRepository,
	messageRepo repositories.MessageRepository,
	completer services.Completer,
	txManager repositories.TransactionManager,
	cost int,
	callTimeout time.Duration,
	logger *slog.Logger,
) services.RevisionService {
	return &revisionService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		versionRepo: versionRepo,
		messageRepo: messageRepo,
		completer:   completer,
		txManager:   txManager,
		cost:        cost,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// MakeRevision runs one revision attempt end to end.
func (s *revisionService) MakeRevision(ctx context.Context, req *services.RevisionRequest) error {
	// Authorize: the authenticated user must exist
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
	}

	// Afford: fast rejection before any side effect. The debit below is the
	// atomic gate; this check only avoids logging a doomed attempt.
	if user.Credits < s.cost {
		return &domain.InsufficientCreditsError{Required: s.cost, Balance: user.Credits}
	}

	// Validate input
	if err := s.validateRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	message := strings.TrimSpace(req.Message)

	// Load project, scoped to the owner
	project, err := s.projectRepo.GetOwned(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return err
	}

	// Log the user's instruction. From here on the conversation log is
	// append-only audit residue and is not rolled back on failure.
	if err := s.appendMessage(ctx, project.ID, models.RoleUser, message); err != nil {
		return fmt.Errorf("log user message: %w", err)
	}

	// Debit: the gate for everything downstream
	if err := s.userRepo.DebitCredits(ctx, req.UserID, s.cost); err != nil {
		return err
	}

	// Enhance the prompt
	enhanced, err := s.complete(ctx, llm.EnhancementInstruction, llm.EnhancementInput(message))
	if err != nil || strings.TrimSpace(enhanced) == "" {
		s.failAttempt(ctx, req.UserID, project.ID, "enhancement", err)
		return &domain.GenerationError{Stage: "enhancement", Message: "prompt enhancement failed"}
	}

	if err := s.appendMessage(ctx, project.ID, models.RoleAssistant, fmt.Sprintf(msgEnhancedPrompt, enhanced)); err != nil {
		s.logger.Warn("failed to log enhanced prompt", "project_id", project.ID, "error", err)
	}
	if err := s.appendMessage(ctx, project.ID, models.RoleAssistant, msgMakingChanges); err != nil {
		s.logger.Warn("failed to log progress notice", "project_id", project.ID, "error", err)
	}

	// Generate the website code with the current code as prior context
	code, err := s.complete(ctx, llm.GenerationInstruction(enhanced), llm.GenerationInput(project.CurrentCode, enhanced))
	if err != nil || strings.TrimSpace(code) == "" {
		s.failAttempt(ctx, req.UserID, project.ID, "generation", err)
		return &domain.GenerationError{Stage: "generation", Message: "code generation failed"}
	}

	// Normalize before storage; the version store persists exactly what it
	// is given
	normalized := utils.StripCodeFences(code)

	version := &models.Version{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Code:        normalized,
		Description: versionDescription,
		CreatedAt:   time.Now(),
	}

	// Commit: version insert, success message, and pointer update land
	// together or not at all
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		if err := s.appendMessage(txCtx, project.ID, models.RoleAssistant, msgChangesMade); err != nil {
			return err
		}
		return s.projectRepo.SetCurrent(txCtx, project.ID, normalized, &version.ID)
	})
	if err != nil {
		s.refund(ctx, req.UserID, project.ID)
		return fmt.Errorf("commit revision: %w", err)
	}

	s.logger.Info("revision committed",
		"project_id", project.ID,
		"version_id", version.ID,
		"user_id", req.UserID,
		"code_bytes", len(normalized),
	)

	return nil
}

// complete runs one external call under the configured deadline
func (s *revisionService) complete(ctx context.Context, instructions, input string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.completer.Complete(callCtx, instructions, input)
}

// failAttempt handles a post-debit external-call failure: append a failure
// notice and refund the debit. Applied uniformly to both call sites so the
// transcript always explains what happened.
func (s *revisionService) failAttempt(ctx context.Context, userID, projectID, stage string, cause error) {
	// The debit is already taken; cleanup must survive a client disconnect
	// or the request deadline, or the credits are lost for good
	ctx = context.WithoutCancel(ctx)

	s.logger.Warn("revision attempt failed",
		"project_id", projectID,
		"user_id", userID,
		"stage", stage,
		"error", cause,
	)

	if err := s.appendMessage(ctx, projectID, models.RoleAssistant, msgGenerationFailed); err != nil {
		s.logger.Warn("failed to log failure notice", "project_id", projectID, "error", err)
	}

	s.refund(ctx, userID, projectID)
}

// refund reverses the revision debit. Runs detached from the request
// context so cancellation cannot eat the debit. A failed refund is logged
// loudly; the ledger has no dedup key, so retrying here could double-credit.
func (s *revisionService) refund(ctx context.Context, userID, projectID string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.userRepo.CreditCredits(ctx, userID, s.cost); err != nil {
		s.logger.Error("credit refund failed",
			"user_id", userID,
			"project_id", projectID,
			"amount", s.cost,
			"error", err,
		)
	}
}

func (s *revisionService) appendMessage(ctx context.Context, projectID, role, content string) error {
	return s.messageRepo.Append(ctx, &models.Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// validateRequest validates a revision request
func (s *revisionService) validateRequest(req *services.RevisionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.By(notBlank),
		),
	)
}

// notBlank rejects strings that are empty after trimming whitespace
func notBlank(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}
	return nil
}
