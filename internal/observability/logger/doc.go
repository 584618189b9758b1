// Package logger provides a singleton Zap logger with context-based scoping.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: "dev", Level: "info"})
//	defer logger.Sync()
//
// En handlers/services (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("sweep finished", logger.UserID(userID))
//
// Sin contexto (fallback al singleton):
//
//	logger.L().Info("service started")
package logger
