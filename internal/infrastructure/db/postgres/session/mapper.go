package session

import (
	domain "filelink-api/internal/domain/session"
)

func fromDBModel(model *Session) *domain.Session {
	fields := domain.Fields(model.Fields)
	if fields == nil {
		fields = domain.Fields{}
	}

	return &domain.Session{
		SessionID: model.SessionID,
		CreatedAt: model.CreatedAt,
		Fields:    fields,
	}
}

func toJSONFields(fields domain.Fields) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	return fields
}
