package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/rippleid/internal/http/controllers/social"
)

// registerSocialRoutes registra rutas de login social.
func registerSocialRoutes(r chi.Router, c *ctrl.Controllers) {
	r.Route("/auth/{provider}", func(r chi.Router) {
		// GET /auth/{provider}/login - redirect al diálogo de autorización
		r.Get("/login", c.Start.Login)

		// GET /auth/{provider}/register - idem, en la página de registro
		r.Get("/register", c.Start.Register)

		// GET /auth/{provider}/callback - vuelta del proveedor con code + state
		r.Get("/callback", c.Callback.Callback)
	})
}
