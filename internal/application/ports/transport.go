package ports

import (
	"context"

	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/user"
)

// Transport is the messaging system that stores file bytes and knows channel
// membership.
type Transport interface {
	MembershipResolver
	ServiceHandle(ctx context.Context) (string, error)
}

type MembershipResolver interface {
	ResolveMembership(ctx context.Context, channel string, userID user.ID) (access.Membership, error)
}
