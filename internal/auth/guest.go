package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	authmw "github.com/mind-engage/mindengage-maturity/internal/auth/middleware"
	"github.com/mind-engage/mindengage-maturity/internal/config"
	"github.com/mind-engage/mindengage-maturity/internal/rbac"
)

const (
	GuestCookie   = "mm_guest_id"
	guestLifetime = 30 * 24 * time.Hour
)

type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Subject     string `json:"subject"`
	Role        string `json:"role"`
}

// POST /auth/guest
// Issues a respondent token. The browser keeps its guest id in a cookie
// so the same assessment is found again on the next visit.
func GuestLoginHandler(a *authmw.AuthService, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.EnableGuestAuth {
			http.Error(w, "guest auth disabled", http.StatusForbidden)
			return
		}

		sub := ""
		if c, err := r.Cookie(GuestCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sub = id.String()
			}
		}
		if sub == "" {
			sub = uuid.NewString()
		}

		tok, err := a.IssueJWT(sub, rbac.RoleRespondent)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		online := cfg.Mode == config.ModeOnline
		sameSite := http.SameSiteLaxMode
		if online {
			sameSite = http.SameSiteNoneMode
		}
		http.SetCookie(w, &http.Cookie{
			Name:     GuestCookie,
			Value:    sub,
			Path:     "/",
			HttpOnly: true,
			Secure:   online,
			SameSite: sameSite,
			Expires:  time.Now().Add(guestLifetime),
		})
		writeToken(w, a, sub, rbac.RoleRespondent, tok)
	}
}

func writeToken(w http.ResponseWriter, a *authmw.AuthService, sub, role, tok string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(tokenOut{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(a.TTL().Seconds()),
		Subject:     sub,
		Role:        role,
	})
}
