package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/imagegen"
	pktNats "ai-imagegen-be/pkg/nats"

	"github.com/google/uuid"
)

type IImageJobService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.ImageJobResponse, error)
	GetJob(ctx context.Context, userId, jobId uuid.UUID) (*dto.ImageJobResponse, error)
	ListJobs(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ImageJobListResponse, error)
}

type imageJobService struct {
	uowFactory      unitofwork.RepositoryFactory
	providerFactory imagegen.Factory
	eventPublisher  *pktNats.Publisher
	imageCost       int
	log             logger.ILogger
}

func NewImageJobService(
	uowFactory unitofwork.RepositoryFactory,
	providerFactory imagegen.Factory,
	eventPublisher *pktNats.Publisher,
	imageCost int,
	log logger.ILogger,
) IImageJobService {
	return &imageJobService{
		uowFactory:      uowFactory,
		providerFactory: providerFactory,
		eventPublisher:  eventPublisher,
		imageCost:       imageCost,
		log:             log,
	}
}

func toImageJobResponse(job *entity.ImageJob) *dto.ImageJobResponse {
	errMsg := ""
	if job.ErrorMessage != nil {
		errMsg = *job.ErrorMessage
	}
	return &dto.ImageJobResponse{
		Id:           job.Id,
		ThreadId:     job.ThreadId,
		Prompt:       job.Prompt,
		Provider:     job.Provider,
		Status:       string(job.Status),
		InputImages:  job.InputImages,
		OutputImages: job.OutputImages,
		ErrorMessage: errMsg,
		CreditsSpent: job.CreditsSpent,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func (s *imageJobService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.ImageJobResponse, error) {
	provider, err := s.providerFactory.Get(req.Provider)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ThreadId != nil {
		if _, err := requireThread(ctx, uow, userId, *req.ThreadId); err != nil {
			return nil, err
		}
	}

	numImages := req.NumImages
	if numImages < 1 {
		numImages = 1
	}
	// A job costs the same no matter how many images it asks for.
	cost := s.imageCost

	job := &entity.ImageJob{
		Id:           uuid.New(),
		UserId:       userId,
		ThreadId:     req.ThreadId,
		Prompt:       req.Prompt,
		Provider:     provider.Name(),
		Status:       entity.ImageJobStatusPending,
		InputImages:  req.InputImages,
		CreditsSpent: cost,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// Record the job and take the credits in one transaction. The debit is
	// a conditional update, so a concurrent request can never overspend
	// the balance.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	if err := uow.ImageJobRepository().Create(ctx, job); err != nil {
		uow.Rollback()
		return nil, err
	}

	debited, err := uow.ProfileRepository().Debit(ctx, userId, cost)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if !debited {
		uow.Rollback()
		return nil, apperr.ErrInsufficientCredits
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := uow.ImageJobRepository().MarkProcessing(ctx, job.Id); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if req.ThreadId != nil {
		history, ctxErr := s.buildThreadContext(ctx, uow, *req.ThreadId)
		if ctxErr != nil {
			s.log.Warn("imagejob", "Failed to load thread context", map[string]interface{}{"error": ctxErr.Error()})
		} else if history != "" {
			prompt = history + "\n\n" + prompt
		}
	}

	result, genErr := provider.Generate(ctx, imagegen.GenerateRequest{
		Prompt:      prompt,
		InputImages: req.InputImages,
		NumImages:   numImages,
	})

	if genErr != nil {
		return s.failJob(ctx, uow, job, cost, genErr)
	}

	return s.completeJob(ctx, uow, job, result.Images)
}

// failJob marks the job failed, returns the debited credits, and
// surfaces the provider error to the caller.
func (s *imageJobService) failJob(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.ImageJob, cost int, genErr error) (*dto.ImageJobResponse, error) {
	s.log.Warn("imagejob", "Generation failed", map[string]interface{}{
		"job_id": job.Id,
		"error":  genErr.Error(),
	})

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ImageJobRepository().MarkFailed(ctx, job.Id, genErr.Error()); err != nil {
		return nil, err
	}

	if err := uow.ProfileRepository().Credit(ctx, job.UserId, cost); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ImageJobFailed, map[string]interface{}{
		"job_id":  job.Id,
		"user_id": job.UserId,
		"error":   genErr.Error(),
	})

	return nil, apperr.AdapterFailure(job.Provider, genErr)
}

func (s *imageJobService) completeJob(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.ImageJob, images []string) (*dto.ImageJobResponse, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ImageJobRepository().MarkCompleted(ctx, job.Id, images); err != nil {
		return nil, err
	}

	generated := len(images)
	if generated == 0 {
		generated = 1
	}
	if err := uow.ProfileRepository().IncrementImagesGenerated(ctx, job.UserId, generated); err != nil {
		return nil, err
	}

	if job.ThreadId != nil {
		if err := s.appendThreadMessages(ctx, uow, job, images); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ImageJobCompleted, map[string]interface{}{
		"job_id":  job.Id,
		"user_id": job.UserId,
		"images":  len(images),
	})

	now := time.Now()
	job.Status = entity.ImageJobStatusCompleted
	job.OutputImages = images
	job.CompletedAt = &now
	return toImageJobResponse(job), nil
}

// buildThreadContext replays earlier prompts in the thread so follow-up
// requests like "make it blue" carry their history to the provider.
func (s *imageJobService) buildThreadContext(ctx context.Context, uow unitofwork.UnitOfWork, threadId uuid.UUID) (string, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: threadContextLimit, Offset: 0},
	)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Previous conversation:")
	for _, msg := range messages {
		b.WriteString("\n")
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String(), nil
}

// appendThreadMessages records the prompt and the result as a user /
// assistant exchange, so the thread reads like a conversation.
func (s *imageJobService) appendThreadMessages(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.ImageJob, images []string) error {
	userMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  *job.ThreadId,
		Role:      entity.ChatMessageRoleUser,
		Content:   job.Prompt,
		ImageURLs: job.InputImages,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return err
	}

	assistantMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  *job.ThreadId,
		Role:      entity.ChatMessageRoleAssistant,
		Content:   assistantCaption(len(images)),
		ImageURLs: images,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return err
	}

	return uow.ChatThreadRepository().Touch(ctx, *job.ThreadId)
}

func assistantCaption(count int) string {
	if count == 1 {
		return "Generated 1 image"
	}
	return fmt.Sprintf("Generated %d images", count)
}

func (s *imageJobService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.log.Warn("imagejob", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *imageJobService) GetJob(ctx context.Context, userId, jobId uuid.UUID) (*dto.ImageJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.ImageJobRepository().FindOne(ctx, specification.ByID{ID: jobId})
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("image job")
	}
	if job.UserId != userId {
		return nil, apperr.ErrForbidden
	}

	return toImageJobResponse(job), nil
}

func (s *imageJobService) ListJobs(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ImageJobListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	total, err := uow.ImageJobRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	jobs, err := uow.ImageJobRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ImageJobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, *toImageJobResponse(job))
	}

	return &dto.ImageJobListResponse{
		Jobs:  responses,
		Total: total,
	}, nil
}
