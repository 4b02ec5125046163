package file

import (
	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/infrastructure/landing"
)

func ToResponseFile(fDomain file.File) File {
	var f = File{
		FileID:        fDomain.FileID,
		FileName:      fDomain.FileName,
		SizeBytes:     fDomain.SizeBytes,
		SizeText:      landing.FormatSize(fDomain.SizeBytes),
		MimeType:      fDomain.MimeType,
		UploaderID:    int64(fDomain.UploaderID),
		UploadedAt:    fDomain.UploadedAt,
		DownloadCount: fDomain.DownloadCount,
	}

	return f
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}

func ToResponseLinks(l ports.FileLinks) Links {
	return Links{
		File:       ToResponseFile(*l.File),
		DirectLink: l.DeepLink,
		LandingURL: l.LandingURL,
		Variant:    string(l.Decision.Variant),
		Premium:    l.Decision.Variant == access.VariantPremium,
	}
}

func ToDomainUpload(req UploadRequest) file.Upload {
	u := file.Upload{
		Kind:     file.Kind(req.Kind),
		FileName: req.FileName,
		MimeType: req.MimeType,
		Variants: make([]file.Variant, len(req.Variants)),
	}
	for idx, v := range req.Variants {
		u.Variants[idx] = file.Variant{
			TransportFileID: v.TransportFileID,
			SizeBytes:       v.SizeBytes,
			Width:           v.Width,
			Height:          v.Height,
		}
	}

	return u
}
