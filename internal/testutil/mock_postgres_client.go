package testutil

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

// MockPostgresClient is a mock implementation of the postgres client for
// testing. The in-memory stores are not transactional, so WithTx simply
// executes the function.
type MockPostgresClient struct {
	logger *logger.Logger
}

func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{logger: logger}
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (c *MockPostgresClient) TxFromContext(ctx context.Context) *sqlx.Tx {
	return nil
}

func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}
