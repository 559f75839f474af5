package auth

import (
	"context"

	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

// StaticAuthorizer allows every administrative action to a single
// configured admin account and denies everything else.
type StaticAuthorizer struct {
	admin string
}

func NewStaticAuthorizer(admin string) ports.Authorizer {
	return StaticAuthorizer{admin: admin}
}

func (a StaticAuthorizer) IsAuthorized(
	_ context.Context, caller, _ string, _ string,
) bool {
	return a.admin != "" && caller == a.admin
}
