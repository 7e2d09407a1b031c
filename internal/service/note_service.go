// FILE: internal/service/note_service.go
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"notevault-be/internal/dto"
	"notevault-be/internal/entity"
	"notevault-be/internal/pkg/apperror"
	"notevault-be/internal/pkg/logger"
	"notevault-be/internal/repository/specification"
	"notevault-be/internal/repository/unitofwork"
	"notevault-be/pkg/events"
	pktNats "notevault-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const maxTitleLength = 150

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) (*dto.ShareNoteResponse, error)
	History(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.HistoryEntryResponse, error)
	Activity(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteActivityResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	identity         IAuthService
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	granteeCache     *gocache.Cache
	log              logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	identity IAuthService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		identity:         identity,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		granteeCache:     gocache.New(30*time.Second, time.Minute),
		log:              log,
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperror.Validation("title must not be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return apperror.Validation("title must be at most %d characters", maxTitleLength)
	}
	return nil
}

func validateContent(content string) error {
	if content == "" {
		return apperror.Validation("content must not be empty")
	}
	return nil
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		UserId:    userId,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	c.publishActivity(ctx, note.Id, userId, entity.NoteActivityCreated, now)
	c.publishEvent(ctx, "NOTE_CREATED", &note, userId)

	return toNoteResponse(&note), nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil || !c.canRead(ctx, uow, note, userId) {
		// Absent and unauthorized are indistinguishable on purpose.
		return nil, apperror.NotFound("note not found")
	}

	return toNoteResponse(note), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	if req.Title == nil && req.Content == nil {
		return nil, apperror.Validation("at least one field must be provided")
	}
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		if err := validateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The row lock serializes concurrent updates to the same note, so each
	// history entry snapshots the content its update actually superseded.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil || note.UserId != userId {
		return nil, apperror.NotFound("note not found")
	}

	now := time.Now()

	// Snapshot before the mutation. A failed snapshot aborts the update;
	// both writes sit in one transaction so neither lands without the other.
	entry := entity.NoteHistory{
		Id:         uuid.New(),
		NoteId:     note.Id,
		Content:    note.Content,
		CapturedAt: now,
	}
	if err := uow.NoteHistoryRepository().Create(ctx, &entry); err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	note.UpdatedAt = now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.publishActivity(ctx, note.Id, userId, entity.NoteActivityUpdated, now)
	c.publishEvent(ctx, "NOTE_UPDATED", note, userId)

	return toNoteResponse(note), nil
}

func (c *noteService) Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) (*dto.ShareNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	// Only the owner may extend sharing, same predicate as Update.
	if note == nil || note.UserId != userId {
		return nil, apperror.NotFound("note not found")
	}

	users, unresolved, err := c.identity.ResolveUsernames(ctx, req.Usernames)
	if err != nil {
		return nil, err
	}

	// The owner is never a grantee; ownership already subsumes the grant.
	granteeIds := make([]uuid.UUID, 0, len(users))
	sharedWith := make([]string, 0, len(users))
	for _, u := range users {
		if u.Id == note.UserId {
			continue
		}
		granteeIds = append(granteeIds, u.Id)
		sharedWith = append(sharedWith, u.Username)
	}

	// Nothing resolved to a grantee: the share applied nothing, report the
	// unknown names as an error instead of an empty success.
	if len(granteeIds) == 0 && len(unresolved) > 0 {
		return nil, &apperror.UnknownGranteeError{Usernames: unresolved}
	}

	if len(granteeIds) > 0 {
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		grant, err := uow.SharedNoteRepository().Upsert(ctx, note.Id)
		if err != nil {
			return nil, err
		}
		if err := uow.SharedNoteRepository().AddGrantees(ctx, grant.Id, granteeIds); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		c.granteeCache.Delete(note.Id.String())

		if len(unresolved) > 0 {
			// Partial success: valid grantees are applied, the rest are reported.
			c.log.Warn("note_service", "share request with unknown grantees", map[string]interface{}{
				"note_id":    note.Id,
				"unresolved": unresolved,
			})
		}

		// Announced only when a grantee was actually added.
		c.publishActivity(ctx, note.Id, userId, entity.NoteActivityShared, time.Now())
		c.publishEvent(ctx, "NOTE_SHARED", note, userId)
	}

	return &dto.ShareNoteResponse{
		NoteId:     note.Id,
		SharedWith: sharedWith,
		Unresolved: unresolved,
	}, nil
}

func (c *noteService) History(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.HistoryEntryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil || !c.canRead(ctx, uow, note, userId) {
		return nil, apperror.NotFound("note not found")
	}

	entries, err := uow.NoteHistoryRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: note.Id},
		specification.OrderBy{Field: "captured_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.HistoryEntryResponse{
			Id:         e.Id,
			NoteId:     e.NoteId,
			Content:    e.Content,
			CapturedAt: e.CapturedAt,
		})
	}
	return res, nil
}

func (c *noteService) Activity(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteActivityResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil || !c.canRead(ctx, uow, note, userId) {
		return nil, apperror.NotFound("note not found")
	}

	activities, err := uow.NoteActivityRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: note.Id},
		specification.OrderBy{Field: "occurred_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteActivityResponse, 0, len(activities))
	for _, a := range activities {
		res = append(res, &dto.NoteActivityResponse{
			NoteId:     a.NoteId,
			UserId:     a.UserId,
			Action:     a.Action,
			OccurredAt: a.OccurredAt,
		})
	}
	return res, nil
}

// canRead implements the single owner-or-shared read predicate.
func (c *noteService) canRead(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.Note, userId uuid.UUID) bool {
	if note.UserId == userId {
		return true
	}

	grantees, err := c.grantees(ctx, uow, note.Id)
	if err != nil {
		c.log.Warn("note_service", "failed to load grantees", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
		return false
	}
	for _, g := range grantees {
		if g == userId {
			return true
		}
	}
	return false
}

func (c *noteService) grantees(ctx context.Context, uow unitofwork.UnitOfWork, noteId uuid.UUID) ([]uuid.UUID, error) {
	key := noteId.String()
	if cached, ok := c.granteeCache.Get(key); ok {
		return cached.([]uuid.UUID), nil
	}

	grantees, err := uow.SharedNoteRepository().Grantees(ctx, noteId)
	if err != nil {
		return nil, err
	}
	c.granteeCache.Set(key, grantees, gocache.DefaultExpiration)
	return grantees, nil
}

func (c *noteService) publishActivity(ctx context.Context, noteId, userId uuid.UUID, action string, occurredAt time.Time) {
	payload := dto.NoteActivityMessage{
		NoteId:     noteId,
		UserId:     userId,
		Action:     action,
		OccurredAt: occurredAt,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("note_service", "failed to marshal activity message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.publisherService.Publish(ctx, payloadJson); err != nil {
		c.log.Warn("note_service", "failed to publish activity message", map[string]interface{}{"error": err.Error()})
	}
}

// publishEvent emits a cross-service event. Best effort: the request does not
// fail when the bus is down.
func (c *noteService) publishEvent(ctx context.Context, eventType string, note *entity.Note, userId uuid.UUID) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"title":   note.Title,
			"note_id": note.Id,
			"user_id": userId,
		},
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.log.Warn("note_service", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		Owner:     note.UserId.String(),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
