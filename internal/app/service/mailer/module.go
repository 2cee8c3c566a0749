package mailer

import "go.uber.org/fx"

// Module exposes the mailer service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
