package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParser_Label(t *testing.T) {
	p, err := NewParser("", zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name       string
		userAgent  string
		label      string
		deviceType string
	}{
		{
			name:       "firefox on linux",
			userAgent:  "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
			label:      "Firefox on Linux",
			deviceType: "desktop",
		},
		{
			name:       "safari on iphone",
			userAgent:  "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
			label:      "Mobile Safari on iOS",
			deviceType: "mobile",
		},
		{
			name:       "terminal client",
			userAgent:  "niyyah-focus/0.3.0 (linux; amd64)",
			label:      "niyyah-focus on Linux",
			deviceType: "cli",
		},
		{
			name:       "empty",
			userAgent:  "",
			label:      "Unknown device",
			deviceType: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := p.ParseUserAgent(tt.userAgent)
			assert.Equal(t, tt.label, info.Label())
			assert.Equal(t, tt.deviceType, info.DeviceType)
		})
	}
}

func TestNewParser_MissingFile(t *testing.T) {
	_, err := NewParser("/nonexistent/regexes.yaml", zap.NewNop())
	assert.Error(t, err)
}
