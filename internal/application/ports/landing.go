package ports

import "filelink-api/internal/infrastructure/landing"

type Landing interface {
	DeepLink(fileID, handle string) (string, error)
	PublicURL(fileID, fileName string, sizeBytes uint64) string
	Render(p landing.Page) (string, error)
}
