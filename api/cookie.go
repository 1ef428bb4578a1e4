package api

import (
	"net/http"
	"time"
)

// IdentityCookieName is the client-side home of the signed identity token.
const IdentityCookieName = "chat_identity"

// setIdentityCookie stores the signed token. HttpOnly and SameSite keep the
// token out of scripts and cross-site requests; Secure follows deployment
// configuration so local development over plain HTTP still works.
func (s *Server) setIdentityCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     IdentityCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
	})
}

func identityCookie(r *http.Request) string {
	cookie, err := r.Cookie(IdentityCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
