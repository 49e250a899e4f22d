package chat

import (
	"time"

	"github.com/geoadvisor/backend/internal/model/account"
)

// Page is the screen the UI should show for a session.
type Page string

const (
	// PageAuth is the login/signup screen, shown while logged out.
	PageAuth Page = "auth"
	// PageChat is the conversation screen, shown while logged in.
	PageChat Page = "chat"
)

// Session captures the transient per-login conversation state. History
// starts empty on every login and is never rehydrated from the user's
// persisted record. Invariant: ActivePage == PageChat exactly when
// Username is non-empty.
type Session struct {
	Token      string                    `json:"-"`
	Username   string                    `json:"username"`
	ActivePage Page                      `json:"activePage"`
	History    []account.MessageExchange `json:"-"`
	CreatedAt  time.Time                 `json:"createdAt"`
}

// LoggedIn reports whether the session currently has an authenticated user.
func (s Session) LoggedIn() bool {
	return s.Username != "" && s.ActivePage == PageChat
}
