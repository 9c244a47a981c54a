// Package syncmode resolves which storage topology the client should use.
// The decision is a pure function of runtime probes, computed once per
// process start and passed down — never re-queried ad hoc.
package syncmode

// RuntimeProfile is the coarse classification of the host environment.
type RuntimeProfile string

const (
	// ProfileDesktop means the native desktop shell with its bridge to a
	// local node is present.
	ProfileDesktop RuntimeProfile = "desktop"
	// ProfileBrowser covers plain tabs and installed (standalone) PWAs.
	ProfileBrowser RuntimeProfile = "browser"
	// ProfileMobile is a browser on a mobile device.
	ProfileMobile RuntimeProfile = "mobile"
)

// Mode names the overall sync strategy.
type Mode string

const (
	ModeGateway Mode = "gateway"
	ModeLocal   Mode = "local"
	ModeHybrid  Mode = "hybrid"
)

// BackendSelection names which storage backends are in play.
type BackendSelection string

const (
	BackendRemotePinning BackendSelection = "remote-pinning"
	BackendSelfHosted    BackendSelection = "self-hosted-node"
	BackendHybrid        BackendSelection = "hybrid"
)

// Features flags per-profile engine capabilities.
type Features struct {
	P2PSync         bool
	OfflineFirst    bool
	LocalEncryption bool
}

// SyncConfig is the derived, non-persisted topology decision. Recomputed on
// every process start.
type SyncConfig struct {
	Profile         RuntimeProfile
	Mode            Mode
	StorageBackend  BackendSelection
	UseLocalNode    bool
	UsePinataBackup bool
	Features        Features
}

// EnvironmentProbe abstracts the runtime checks so tests can substitute a
// static fake.
type EnvironmentProbe interface {
	// HasDesktopBridge reports whether the native shell bridge is present.
	HasDesktopBridge() bool
	// IsStandaloneDisplay reports whether the app runs as an installed PWA.
	IsStandaloneDisplay() bool
	// UserAgent returns the raw user-agent string, empty when unknown.
	UserAgent() string
}

// Profile classifies the environment.
func Profile(p EnvironmentProbe) RuntimeProfile {
	if p.HasDesktopBridge() {
		return ProfileDesktop
	}
	if isMobileUserAgent(p.UserAgent()) {
		return ProfileMobile
	}
	return ProfileBrowser
}

// Resolve maps the environment onto a SyncConfig. Desktop gets the hybrid
// topology (local node plus remote backup, peer sync on); everything else is
// gateway-only. Offline-first caching and local encryption are always on —
// the local cache and the cipher layer exist on every platform.
func Resolve(p EnvironmentProbe) SyncConfig {
	profile := Profile(p)

	if profile == ProfileDesktop {
		return SyncConfig{
			Profile:         profile,
			Mode:            ModeHybrid,
			StorageBackend:  BackendHybrid,
			UseLocalNode:    true,
			UsePinataBackup: true,
			Features: Features{
				P2PSync:         true,
				OfflineFirst:    true,
				LocalEncryption: true,
			},
		}
	}

	return SyncConfig{
		Profile:         profile,
		Mode:            ModeGateway,
		StorageBackend:  BackendRemotePinning,
		UseLocalNode:    false,
		UsePinataBackup: true,
		Features: Features{
			P2PSync:         false,
			OfflineFirst:    true,
			LocalEncryption: true,
		},
	}
}
