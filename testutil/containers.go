package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// ResolveDSN makes TEST_DATABASE_URL available to the current test binary.
//
// If TEST_DATABASE_URL is already set it is used as is. Otherwise, when
// TEST_USE_CONTAINERS=1, a throwaway Postgres 16 container is started and
// TEST_DATABASE_URL is pointed at it. With neither set, ok is false and the
// integration tests skip themselves.
//
// The returned stop func must be called once all tests have finished.
func ResolveDSN(ctx context.Context) (ok bool, stop func(), err error) {
	noop := func() {}
	if os.Getenv("TEST_DATABASE_URL") != "" {
		return true, noop, nil
	}
	if os.Getenv("TEST_USE_CONTAINERS") != "1" {
		return false, noop, nil
	}

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fleetdash"),
		postgres.WithUsername("fleetdash"),
		postgres.WithPassword("fleetdash"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return false, noop, fmt.Errorf("testutil.ResolveDSN: start postgres: %w", err)
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return false, noop, fmt.Errorf("testutil.ResolveDSN: connection string: %w", err)
	}

	if err := os.Setenv("TEST_DATABASE_URL", dsn); err != nil {
		_ = pgC.Terminate(ctx)
		return false, noop, fmt.Errorf("testutil.ResolveDSN: setenv: %w", err)
	}

	return true, func() { _ = pgC.Terminate(context.Background()) }, nil
}
