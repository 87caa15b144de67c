package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	assert.Equal(t, "Skincare Journal API", swagger.Info.Title)
	for _, path := range []string{"/health", "/api/v1/logs", "/api/v1/logs/{id}", "/api/v1/insights", "/api/v1/progress", "/api/v1/me"} {
		assert.NotNil(t, swagger.Paths.Find(path), path)
	}

	health := swagger.Paths.Find("/health").Get
	require.NotNil(t, health.Security)
	assert.Empty(t, *health.Security, "health must not require a token")
}
