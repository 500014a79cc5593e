package controllers

import (
	"context"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/repositories"
	"github.com/vermils/paydesk/services"
)

// watcherCtx bounds the lifetime of per-order expiry watchers. It defaults
// to Background so handlers work in tests; main ties it to the server's
// shutdown context.
var watcherCtx = context.Background()

// SetWatcherContext ties per-order expiry watchers to the given context
func SetWatcherContext(ctx context.Context) {
	watcherCtx = ctx
}

// orderService builds the coordinator over the live database handle. The
// repositories are thin wrappers, so per-request construction is free.
var orderService = func() *services.OrderService {
	return services.NewOrderService(
		repositories.NewOrderRepository(config.DB),
		repositories.NewPaymentRepository(config.DB),
		repositories.NewPaymentMethodRepository(config.DB),
	)
}

// apiKeyService builds the key service over the live database handle
func apiKeyService() *services.APIKeyService {
	return services.NewAPIKeyService(repositories.NewAPIKeyRepository(config.DB))
}
