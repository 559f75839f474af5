package ports

import (
	"context"
)

// Actions subject to the authorization gate.
const (
	ActionAddAllowedDenom    = "add-allowed-denom"
	ActionRemoveAllowedDenom = "remove-allowed-denom"
	ActionSetFeeParams       = "set-fee-params"
	ActionSendFromFeePool    = "send-from-fee-pool"
)

// Authorizer decides whether a caller may perform an administrative action
// on a target. Every administrative mutation consults it before touching
// storage.
type Authorizer interface {
	IsAuthorized(ctx context.Context, caller, action, target string) bool
}
