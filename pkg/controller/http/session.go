package http

import (
	"net/http"

	"github.com/secmon-lab/insights/pkg/domain/types"
)

// SessionCookieName names the cookie keying the custom chart registry of a browser session
const SessionCookieName = "insights_session"

// session returns the dashboard session of the request, issuing a new one
// when the cookie is missing or malformed
func (s *Server) session(w http.ResponseWriter, r *http.Request) types.SessionID {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if sid, ok := types.ParseSessionID(cookie.Value); ok {
			return sid
		}
	}

	sid := types.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
