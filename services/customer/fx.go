package customer

import "go.uber.org/fx"

var Module = fx.Module("customer.service",
	fx.Provide(NewService, NewHandler),
	fx.Invoke(RegisterRoutes),
)

// Models lists the tables owned by this package, in migration order.
var Models = []any{&Customer{}}
