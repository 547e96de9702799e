// Package social contiene los services del flujo de login con proveedores externos.
package social

// Services agrupa todos los services del dominio social.
type Services struct {
	Start       StartService
	Callback    CallbackService
	StateSigner StateSigner
}

// NewServices crea el agregador de services social.
func NewServices(d CallbackDeps) Services {
	return Services{
		Start: NewStartService(StartDeps{
			Providers:   d.Providers,
			StateSigner: d.StateSigner,
		}),
		Callback:    NewCallbackService(d),
		StateSigner: d.StateSigner,
	}
}
