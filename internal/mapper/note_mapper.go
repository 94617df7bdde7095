package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}
	updatedAt := n.UpdatedAt
	return &entity.Note{
		Id:         n.Id,
		UserId:     n.UserId,
		FolderId:   n.FolderId,
		Title:      n.Title,
		Content:    n.Content,
		IsFavorite: n.IsFavorite,
		IsArchived: n.IsArchived,
		IsTrashed:  n.IsTrashed,
		TrashedAt:  n.TrashedAt,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  &updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}
	res := &model.Note{
		Id:         n.Id,
		UserId:     n.UserId,
		FolderId:   n.FolderId,
		Title:      n.Title,
		Content:    n.Content,
		IsFavorite: n.IsFavorite,
		IsArchived: n.IsArchived,
		IsTrashed:  n.IsTrashed,
		TrashedAt:  n.TrashedAt,
		CreatedAt:  n.CreatedAt,
	}
	if n.UpdatedAt != nil {
		res.UpdatedAt = *n.UpdatedAt
	}
	return res
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	res := make([]*entity.Note, 0, len(notes))
	for _, n := range notes {
		res = append(res, m.ToEntity(n))
	}
	return res
}
