package premium

import (
	domain "filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
)

func fromDBModel(model *Grant) *domain.Grant {
	var g = &domain.Grant{
		UserID:    user.ID(model.UserID),
		IsPremium: model.IsPremium,
		GrantedAt: model.GrantedAt,
		ExpiresAt: model.ExpiresAt,
	}

	return g
}
