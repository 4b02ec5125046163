package user

import (
	"filelink-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		UserID:         int64(uDomain.ID),
		Username:       uDomain.Username,
		FirstName:      uDomain.FirstName,
		JoinedAt:       uDomain.JoinedAt,
		TotalUploads:   uDomain.TotalUploads,
		TotalDownloads: uDomain.TotalDownloads,
		IsVerified:     uDomain.IsVerified,
	}

	return u
}

func ToDomainPatch(id user.ID, req Request) user.Patch {
	return user.Patch{
		ID:         id,
		Username:   req.Username,
		FirstName:  req.FirstName,
		IsVerified: req.IsVerified,
	}
}
