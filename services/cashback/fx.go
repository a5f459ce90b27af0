package cashback

import (
	"cashback-ledger/services/customer"

	"go.uber.org/fx"
)

var Module = fx.Module("cashback.service",
	fx.Provide(
		NewService,
		NewHandler,
		func(s *Service) customer.BalanceProvisioner { return s },
	),
	fx.Invoke(RegisterRoutes),
)

// Models lists the tables owned by this package, in migration order.
var Models = []any{
	&CashbackBalance{},
	&Transaction{},
	&CashbackTransfer{},
	&Payout{},
	&GiftCard{},
}
