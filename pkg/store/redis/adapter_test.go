package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoplens/shoplens/pkg/observability/logger"
)

func TestNewRedisAdapter_RequiresURL(t *testing.T) {
	_, err := NewRedisAdapter(Config{}, logger.NewNop())
	assert.ErrorContains(t, err, "redis URL is required")
}

func TestNewRedisAdapter_RejectsMalformedURL(t *testing.T) {
	_, err := NewRedisAdapter(Config{URL: "://not-a-url"}, logger.NewNop())
	assert.ErrorContains(t, err, "failed to parse redis URL")
}
