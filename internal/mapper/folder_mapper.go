package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type FolderMapper struct{}

func NewFolderMapper() *FolderMapper {
	return &FolderMapper{}
}

func (m *FolderMapper) ToEntity(f *model.Folder) *entity.Folder {
	if f == nil {
		return nil
	}
	updatedAt := f.UpdatedAt
	return &entity.Folder{
		Id:        f.Id,
		UserId:    f.UserId,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: &updatedAt,
	}
}

func (m *FolderMapper) ToModel(f *entity.Folder) *model.Folder {
	if f == nil {
		return nil
	}
	res := &model.Folder{
		Id:        f.Id,
		UserId:    f.UserId,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
	}
	if f.UpdatedAt != nil {
		res.UpdatedAt = *f.UpdatedAt
	}
	return res
}

func (m *FolderMapper) ToEntities(folders []*model.Folder) []*entity.Folder {
	res := make([]*entity.Folder, 0, len(folders))
	for _, f := range folders {
		res = append(res, m.ToEntity(f))
	}
	return res
}
