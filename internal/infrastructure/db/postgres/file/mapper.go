package file

import (
	domain "filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		FileID:          model.FileID,
		TransportFileID: model.TransportFileID,
		FileName:        model.FileName,
		SizeBytes:       model.SizeBytes,
		MimeType:        model.MimeType,
		UploaderID:      user.ID(model.UploaderID),

		UploadedAt:    model.UploadedAt,
		DownloadCount: model.DownloadCount,
		IsActive:      model.IsActive,
	}

	return f
}

func fromDBModels(models *Files) domain.Files {
	fs := make(domain.Files, len(*models))
	for idx, f := range *models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
