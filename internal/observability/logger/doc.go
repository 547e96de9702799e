// Package logger provides a singleton Zap logger with context-based scoping.
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request lleva su propio logger con request_id,
//     method y route, inyectado por el middleware de logging.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// Inicialización (una vez, en cmd/rippleid):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("CallbackService.Callback"))
//	log.Info("login completed", logger.Provider(name))
package logger
