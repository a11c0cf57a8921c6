package signal

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
)

// BuildSessionContext creates the context attached to events before detection.
func BuildSessionContext(sessionID, tenantID string, trail *state.FocusTrail) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		TenantID:  tenantID,
		Trail:     trail.All(),
	}
}
