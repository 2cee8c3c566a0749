package webhookflow

import "go.uber.org/fx"

// Module exposes the webhook processor via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
