package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenantcore/tenantcore/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, uuid.New().String())
	ctx = types.SetUserID(ctx, "test-user")
	return ctx
}
