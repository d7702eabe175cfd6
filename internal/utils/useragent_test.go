package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("Desktop Chrome On Windows", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		assert.Equal(t, "desktop", info.DeviceType)
		assert.Equal(t, "windows", info.Platform)
		assert.Equal(t, "Chrome", info.Browser)
		assert.NotEmpty(t, info.Raw)
	})

	t.Run("Mobile Safari On iPhone", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1")

		assert.Equal(t, "mobile", info.DeviceType)
		assert.Equal(t, "ios", info.Platform)
	})

	t.Run("iPad Is Tablet", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148")

		assert.Equal(t, "tablet", info.DeviceType)
	})

	t.Run("Empty User Agent", func(t *testing.T) {
		info := ParseUserAgent("")

		assert.Equal(t, "unknown", info.DeviceType)
		assert.Equal(t, "Unknown", info.OS)
		assert.Equal(t, "Unknown", info.Browser)
		assert.Empty(t, info.Raw)
	})
}
