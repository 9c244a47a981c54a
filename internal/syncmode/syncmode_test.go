package syncmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		probe       StaticProbe
		wantProfile RuntimeProfile
		wantMode    Mode
		wantLocal   bool
		wantP2P     bool
	}{
		{
			name:        "desktop shell",
			probe:       StaticProbe{DesktopBridge: true},
			wantProfile: ProfileDesktop,
			wantMode:    ModeHybrid,
			wantLocal:   true,
			wantP2P:     true,
		},
		{
			name:        "plain browser tab",
			probe:       StaticProbe{Agent: "Mozilla/5.0 (X11; Linux x86_64)"},
			wantProfile: ProfileBrowser,
			wantMode:    ModeGateway,
		},
		{
			name:        "installed pwa",
			probe:       StaticProbe{Standalone: true, Agent: "Mozilla/5.0 (X11; Linux x86_64)"},
			wantProfile: ProfileBrowser,
			wantMode:    ModeGateway,
		},
		{
			name:        "mobile browser",
			probe:       StaticProbe{Agent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"},
			wantProfile: ProfileMobile,
			wantMode:    ModeGateway,
		},
		{
			name:        "desktop bridge wins over mobile agent",
			probe:       StaticProbe{DesktopBridge: true, Agent: "Android"},
			wantProfile: ProfileDesktop,
			wantMode:    ModeHybrid,
			wantLocal:   true,
			wantP2P:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Resolve(tt.probe)

			assert.Equal(t, tt.wantProfile, cfg.Profile)
			assert.Equal(t, tt.wantMode, cfg.Mode)
			assert.Equal(t, tt.wantLocal, cfg.UseLocalNode)
			assert.Equal(t, tt.wantP2P, cfg.Features.P2PSync)

			// Invariants across all profiles.
			assert.True(t, cfg.Features.OfflineFirst, "offline-first caching is always on")
			assert.True(t, cfg.Features.LocalEncryption, "local encryption is always on")
			assert.True(t, cfg.UsePinataBackup)
		})
	}
}

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, isMobileUserAgent("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
	assert.True(t, isMobileUserAgent("Mozilla/5.0 (iPad; CPU OS 17_0)"))
	assert.False(t, isMobileUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)"))
	assert.False(t, isMobileUserAgent(""))
}
