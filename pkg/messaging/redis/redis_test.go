package redis

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisBrokerRejectsBadURL(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewRedisBroker(context.Background(), Config{URL: "not-a-url"}, &logger)
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
