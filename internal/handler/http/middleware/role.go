package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireCapability short-circuits requests whose token role lacks the
// capability. Services re-check against the stored role.
func RequireCapability(has func(user.Capabilities) bool, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, denied)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok || !has(user.CapabilitiesFor(user.Role(roleStr))) {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSettingsAccess requires the timeclock settings capability
func RequireSettingsAccess(next http.Handler) http.Handler {
	return RequireCapability(user.Capabilities.CanManageTimeclockSettings, user.ErrSettingsAccessRequired)(next)
}

// RequireManager requires any capability that reaches other users' entries
func RequireManager(next http.Handler) http.Handler {
	return RequireCapability(user.Capabilities.CanSeeOthers, user.ErrManagerAccessRequired)(next)
}
