package social

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/rippleid/internal/http/errors"
	svc "github.com/dropDatabas3/rippleid/internal/http/services/social"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
	"github.com/dropDatabas3/rippleid/internal/providers"
	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
)

// StartController handles the login and register redirects.
type StartController struct {
	service svc.StartService
}

// NewStartController creates a new StartController.
func NewStartController(service svc.StartService) *StartController {
	return &StartController{service: service}
}

// Login handles GET /auth/{provider}/login
func (c *StartController) Login(w http.ResponseWriter, r *http.Request) {
	c.start(w, r, startOptions(r))
}

// Register handles GET /auth/{provider}/register. Same as Login but lands on
// the provider's sign-up page.
func (c *StartController) Register(w http.ResponseWriter, r *http.Request) {
	opts := startOptions(r)
	opts[ripple.OptionType] = ripple.TypeSignup
	c.start(w, r, opts)
}

func (c *StartController) start(w http.ResponseWriter, r *http.Request, opts providers.AuthOptions) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"), logger.Provider(provider))

	res, err := c.service.Start(ctx, svc.StartRequest{Provider: provider, Options: opts})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrStartProviderUnknown):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("unknown provider"))
		default:
			log.Error("start failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}

// startOptions lee las opciones por request del query string.
// cip_done=true|1 se reenvía como booleano; otro valor no vacío pasa tal cual.
func startOptions(r *http.Request) providers.AuthOptions {
	opts := providers.AuthOptions{}
	if v := strings.TrimSpace(r.URL.Query().Get("cip_done")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts[ripple.OptionCIPDone] = b
		} else {
			opts[ripple.OptionCIPDone] = v
		}
	}
	return opts
}
