package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/database/dbretry"
	"github.com/productPach/tutorio-backend-sub000/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests mutate the package-level policy, so none run in parallel.

func TestConfigureDrivesRetryPolicy(t *testing.T) {
	dbretry.Configure(&config.Retry{MaxRetries: 2, Delay: 1, MaxDelay: 2})
	t.Cleanup(func() {
		dbretry.Configure(&config.Retry{MaxRetries: 5, Delay: 100, MaxDelay: 2000})
	})

	attempts := 0

	_, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "one initial attempt plus the configured retries")
}

func TestNonRetryableErrorSurfacesImmediately(t *testing.T) {
	dbretry.Configure(&config.Retry{MaxRetries: 3, Delay: 1, MaxDelay: 2})
	t.Cleanup(func() {
		dbretry.Configure(&config.Retry{MaxRetries: 5, Delay: 100, MaxDelay: 2000})
	})

	attempts := 0

	_, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("duplicate key value violates unique constraint")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
