// Package logger expone el logger zap del proceso y helpers para propagarlo
// por contexto.
//
// Init se llama una vez desde main con la sección log de la configuración.
// Los middlewares HTTP inyectan un logger con request_id y tenant_id vía
// ToContext; el resto del código usa From(ctx), que cae al logger global si
// el contexto no trae uno.
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	logger.From(ctx).Info("staff created", logger.Entity("staff"), logger.EntityID(id))
package logger
