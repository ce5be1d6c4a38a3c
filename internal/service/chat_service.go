package service

import (
	"context"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// threadContextLimit caps how much history is replayed to an image
// provider as conversation context.
const threadContextLimit = 50

type IChatService interface {
	CreateThread(ctx context.Context, userId uuid.UUID, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	ListThreads(ctx context.Context, userId uuid.UUID) ([]dto.ThreadResponse, error)
	GetThread(ctx context.Context, userId, threadId uuid.UUID) (*dto.ThreadDetailResponse, error)
	RenameThread(ctx context.Context, userId, threadId uuid.UUID, req *dto.RenameThreadRequest) (*dto.ThreadResponse, error)
	AppendMessage(ctx context.Context, userId, threadId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error)
	DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatService(uowFactory unitofwork.RepositoryFactory) IChatService {
	return &chatService{
		uowFactory: uowFactory,
	}
}

// requireThread loads a thread and verifies the caller owns it.
func requireThread(ctx context.Context, uow unitofwork.UnitOfWork, userId, threadId uuid.UUID) (*entity.ChatThread, error) {
	thread, err := uow.ChatThreadRepository().FindOne(ctx, specification.ByID{ID: threadId})
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apperr.NotFound("thread")
	}
	if thread.UserId != userId {
		return nil, apperr.ErrForbidden
	}
	return thread, nil
}

func toThreadResponse(thread *entity.ChatThread) dto.ThreadResponse {
	return dto.ThreadResponse{
		Id:        thread.Id,
		Title:     thread.Title,
		CreatedAt: thread.CreatedAt,
		UpdatedAt: thread.UpdatedAt,
	}
}

func (s *chatService) CreateThread(ctx context.Context, userId uuid.UUID, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread := &entity.ChatThread{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uow.ChatThreadRepository().Create(ctx, thread); err != nil {
		return nil, err
	}

	resp := toThreadResponse(thread)
	return &resp, nil
}

func (s *chatService) ListThreads(ctx context.Context, userId uuid.UUID) ([]dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ChatThreadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, toThreadResponse(thread))
	}
	return responses, nil
}

func (s *chatService) GetThread(ctx context.Context, userId, threadId uuid.UUID) (*dto.ThreadDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := requireThread(ctx, uow, userId, threadId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageResponses := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		messageResponses = append(messageResponses, dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      string(msg.Role),
			Content:   msg.Content,
			ImageURLs: msg.ImageURLs,
			CreatedAt: msg.CreatedAt,
		})
	}

	return &dto.ThreadDetailResponse{
		Thread:   toThreadResponse(thread),
		Messages: messageResponses,
	}, nil
}

func (s *chatService) RenameThread(ctx context.Context, userId, threadId uuid.UUID, req *dto.RenameThreadRequest) (*dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := requireThread(ctx, uow, userId, threadId)
	if err != nil {
		return nil, err
	}

	thread.Title = req.Title
	thread.UpdatedAt = time.Now()

	if err := uow.ChatThreadRepository().Update(ctx, thread); err != nil {
		return nil, err
	}

	resp := toThreadResponse(thread)
	return &resp, nil
}

func (s *chatService) AppendMessage(ctx context.Context, userId, threadId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := requireThread(ctx, uow, userId, threadId); err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  threadId,
		Role:      entity.ChatMessageRole(req.Role),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	if err := uow.ChatThreadRepository().Touch(ctx, threadId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ChatMessageResponse{
		Id:        message.Id,
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}, nil
}

func (s *chatService) DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := requireThread(ctx, uow, userId, threadId); err != nil {
		return err
	}

	// Thread and its messages go together.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteAllByThreadId(ctx, threadId); err != nil {
		return err
	}

	if err := uow.ChatThreadRepository().Delete(ctx, threadId); err != nil {
		return err
	}

	return uow.Commit()
}
