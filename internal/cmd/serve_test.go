package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalHealthChecker(t *testing.T) {
	checker := signalHealthChecker{}

	t.Run("always returns nil", func(t *testing.T) {
		err := checker.CheckHealth(context.Background())
		assert.NoError(t, err)
	})
}

func TestDirHealthChecker(t *testing.T) {
	t.Run("writable directory is healthy", func(t *testing.T) {
		checker := dirHealthChecker{dir: t.TempDir()}
		assert.NoError(t, checker.CheckHealth(context.Background()))
	})

	t.Run("missing directory is created", func(t *testing.T) {
		checker := dirHealthChecker{dir: t.TempDir() + "/nested/data"}
		assert.NoError(t, checker.CheckHealth(context.Background()))
	})

	t.Run("unconfigured directory fails", func(t *testing.T) {
		checker := dirHealthChecker{}
		err := checker.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}
