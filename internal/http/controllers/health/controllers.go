// Package health contiene el controller de health check.
package health

import (
	"net/http"

	httperrors "github.com/dropDatabas3/rippleid/internal/http/errors"
	svc "github.com/dropDatabas3/rippleid/internal/http/services/health"
)

// HealthController expone GET /healthz.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea el controller.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Health responde 200 con el estado, o 503 si alguna dependencia falla.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	res := c.service.Check(r.Context())

	status := http.StatusOK
	if !res.Healthy() {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.WriteJSON(w, status, res)
}
