package user

import (
	domain "filelink-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:        domain.ID(model.ID),
		Username:  model.Username,
		FirstName: model.FirstName,

		JoinedAt:       model.JoinedAt,
		TotalUploads:   model.TotalUploads,
		TotalDownloads: model.TotalDownloads,
		IsVerified:     model.IsVerified,
	}

	return u
}
