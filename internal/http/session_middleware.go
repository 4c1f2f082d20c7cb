package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepwise/internal/domain"
	"prepwise/internal/service"
)

const currentUserKey = "current_user"

// RequireSession resuelve el cookie de sesión y guarda el usuario en el
// contexto. Rechaza con 401 cualquier request sin sesión válida.
func RequireSession(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sessions not configured"})
			c.Abort()
			return
		}

		cookie, err := c.Cookie(service.SessionCookieName)
		if err != nil || cookie == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		user, ok := sessions.Resolve(c.Request.Context(), cookie)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
