package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigCarriesNoWriteDeadline(t *testing.T) {
	cfg := appConfig()

	// Proxied event streams must outlive any fixed write deadline.
	assert.Zero(t, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
}
