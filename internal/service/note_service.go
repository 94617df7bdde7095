package service

import (
	"context"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
)

// EntitlementGate is the creation check shared by the note and folder services.
type EntitlementGate interface {
	CheckAndReserve(ctx context.Context, userID uuid.UUID, kind entitlement.ResourceKind) (entitlement.Decision, error)
}

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.NoteResponse, error)
	SetFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID, value bool) (*dto.NoteResponse, error)
	SetArchived(ctx context.Context, userId uuid.UUID, id uuid.UUID, value bool) (*dto.NoteResponse, error)
	Trash(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	EmptyTrash(ctx context.Context, userId uuid.UUID) (*dto.EmptyTrashResponse, error)
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
	gate       EntitlementGate
	logger     logger.ILogger
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, gate EntitlementGate, logger logger.ILogger) INoteService {
	return &noteService{
		uowFactory: uowFactory,
		gate:       gate,
		logger:     logger,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	decision, err := c.gate.CheckAndReserve(ctx, userId, entitlement.ResourceNote)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if req.FolderId != nil {
		if err := c.ensureFolder(ctx, uow.FolderRepository(), userId, *req.FolderId); err != nil {
			return nil, err
		}
	}

	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		FolderId:  req.FolderId,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	return &dto.CreateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error) {
	specs := []specification.Specification{specification.ByUserID{UserID: userId}}

	switch req.Filter {
	case dto.NoteFilterFavorites:
		specs = append(specs, specification.FavoriteNotes{})
	case dto.NoteFilterArchived:
		specs = append(specs, specification.ArchivedNotes{})
	case dto.NoteFilterTrash:
		specs = append(specs, specification.TrashedNotes{})
	default:
		specs = append(specs, specification.InboxNotes{})
	}

	if req.FolderId != "" {
		folderId, err := uuid.Parse(req.FolderId)
		if err != nil {
			return nil, ErrFolderNotFound
		}
		specs = append(specs, specification.ByFolderID{FolderID: folderId})
	}
	if req.Query != "" {
		specs = append(specs, specification.NoteSearchQuery{Query: req.Query})
	}

	order := specification.OrderBy{Field: "updated_at", Desc: true}
	if req.Filter == dto.NoteFilterTrash {
		order = specification.OrderBy{Field: "trashed_at", Desc: true}
	}
	specs = append(specs, order, specification.Pagination{Limit: req.Limit, Offset: req.Offset})

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		res = append(res, toNoteResponse(note))
	}
	return res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow.NoteRepository(), userId, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	return c.mutate(ctx, userId, req.Id, func(note *entity.Note) bool {
		note.Title = req.Title
		note.Content = req.Content
		return true
	})
}

func (c *noteService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.NoteResponse, error) {
	if req.FolderId != nil {
		uow := c.uowFactory.NewUnitOfWork(ctx)
		if err := c.ensureFolder(ctx, uow.FolderRepository(), userId, *req.FolderId); err != nil {
			return nil, err
		}
	}
	return c.mutate(ctx, userId, req.Id, func(note *entity.Note) bool {
		note.FolderId = req.FolderId
		return true
	})
}

func (c *noteService) SetFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID, value bool) (*dto.NoteResponse, error) {
	return c.mutate(ctx, userId, id, func(note *entity.Note) bool {
		if note.IsFavorite == value {
			return false
		}
		note.IsFavorite = value
		return true
	})
}

func (c *noteService) SetArchived(ctx context.Context, userId uuid.UUID, id uuid.UUID, value bool) (*dto.NoteResponse, error) {
	return c.mutate(ctx, userId, id, func(note *entity.Note) bool {
		if note.IsArchived == value {
			return false
		}
		note.IsArchived = value
		return true
	})
}

// Trash frees a quota slot; the note stays recoverable until deleted.
func (c *noteService) Trash(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	return c.mutate(ctx, userId, id, func(note *entity.Note) bool {
		if note.IsTrashed {
			return false
		}
		now := time.Now()
		note.IsTrashed = true
		note.TrashedAt = &now
		return true
	})
}

// Restore brings a trashed note back into the active set, so it needs a
// free slot just like a new note.
func (c *noteService) Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow.NoteRepository(), userId, id)
	if err != nil {
		return nil, err
	}
	if !note.IsTrashed {
		return toNoteResponse(note), nil
	}

	decision, err := c.gate.CheckAndReserve(ctx, userId, entitlement.ResourceNote)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	note.IsTrashed = false
	note.TrashedAt = nil
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow.NoteRepository(), userId, id)
	if err != nil {
		return err
	}
	return uow.NoteRepository().Delete(ctx, note.Id)
}

func (c *noteService) EmptyTrash(ctx context.Context, userId uuid.UUID) (*dto.EmptyTrashResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.NoteRepository().DeleteAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.TrashedNotes{},
	)
	if err != nil {
		return nil, err
	}

	c.logger.Info("NOTE", "Trash emptied", map[string]interface{}{
		"user_id": userId.String(),
		"deleted": deleted,
	})
	return &dto.EmptyTrashResponse{Deleted: deleted}, nil
}

// mutate loads an owned note, applies change and saves it when change
// reports a difference.
func (c *noteService) mutate(ctx context.Context, userId uuid.UUID, id uuid.UUID, change func(note *entity.Note) bool) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow.NoteRepository(), userId, id)
	if err != nil {
		return nil, err
	}
	if !change(note) {
		return toNoteResponse(note), nil
	}
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) findOwned(ctx context.Context, repo contract.NoteRepository, userId uuid.UUID, id uuid.UUID) (*entity.Note, error) {
	note, err := repo.FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (c *noteService) ensureFolder(ctx context.Context, repo contract.FolderRepository, userId uuid.UUID, folderId uuid.UUID) error {
	count, err := repo.Count(ctx,
		specification.ByID{ID: folderId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFolderNotFound
	}
	return nil
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:         note.Id,
		Title:      note.Title,
		Content:    note.Content,
		FolderId:   note.FolderId,
		IsFavorite: note.IsFavorite,
		IsArchived: note.IsArchived,
		IsTrashed:  note.IsTrashed,
		TrashedAt:  note.TrashedAt,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}
