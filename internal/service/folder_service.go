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

type IFolderService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type folderService struct {
	uowFactory unitofwork.RepositoryFactory
	gate       EntitlementGate
	logger     logger.ILogger
}

func NewFolderService(uowFactory unitofwork.RepositoryFactory, gate EntitlementGate, logger logger.ILogger) IFolderService {
	return &folderService{
		uowFactory: uowFactory,
		gate:       gate,
		logger:     logger,
	}
}

func (c *folderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	decision, err := c.gate.CheckAndReserve(ctx, userId, entitlement.ResourceFolder)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	folder := entity.Folder{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}
	return &dto.CreateFolderResponse{Id: folder.Id}, nil
}

func (c *folderService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	counts, err := uow.NoteRepository().CountByFolder(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FolderResponse, 0, len(folders))
	for _, folder := range folders {
		item := toFolderResponse(folder)
		item.NoteCount = counts[folder.Id]
		res = append(res, item)
	}
	return res, nil
}

func (c *folderService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	folder, err := c.findOwned(ctx, uow.FolderRepository(), userId, req.Id)
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}
	return toFolderResponse(folder), nil
}

// Delete removes the folder for good and leaves its notes unfiled.
func (c *folderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	folder, err := c.findOwned(ctx, uow.FolderRepository(), userId, id)
	if err != nil {
		return err
	}
	if err := uow.NoteRepository().Unfile(ctx, folder.Id); err != nil {
		return err
	}
	if err := uow.FolderRepository().Delete(ctx, folder.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (c *folderService) findOwned(ctx context.Context, repo contract.FolderRepository, userId uuid.UUID, id uuid.UUID) (*entity.Folder, error) {
	folder, err := repo.FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, ErrFolderNotFound
	}
	return folder, nil
}

func toFolderResponse(folder *entity.Folder) *dto.FolderResponse {
	return &dto.FolderResponse{
		Id:        folder.Id,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}
}
