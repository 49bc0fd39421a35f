package delegate

import (
	"context"
	"testing"

	"github.com/muhammadolammi/skillsync/internal/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsProvider(t *testing.T) {
	d, err := New(context.Background(), config.Config{
		Provider: config.ProviderGroq,
		Model:    config.DefaultGroqModel,
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, d)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.Config{Provider: "mystery"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrUnknownProvider))
}
