package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// backendConfig collects pre-creation configuration from builder options.
type backendConfig struct {
	forceFallbackAdapter bool
	presentMode          *PresentMode
	clearColor           wgpu.Color
}

// BackendBuilderOption is a functional option applied to a backend during construction via NewBackend.
type BackendBuilderOption func(*backendConfig)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - BackendBuilderOption: a function that applies the present mode option to a backend
func WithPresentMode(mode PresentMode) BackendBuilderOption {
	return func(cfg *backendConfig) {
		cfg.presentMode = &mode
	}
}

// WithClearColor sets the color the render pass clears to at the start of each frame.
// When not specified, the default is an opaque dark gray.
//
// Parameters:
//   - color: the clear color in linear RGBA
//
// Returns:
//   - BackendBuilderOption: a function that applies the clear color option to a backend
func WithClearColor(color wgpu.Color) BackendBuilderOption {
	return func(cfg *backendConfig) {
		cfg.clearColor = color
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - BackendBuilderOption: a function that applies the force software renderer option to a backend
func WithForceSoftwareRenderer(force bool) BackendBuilderOption {
	return func(cfg *backendConfig) {
		cfg.forceFallbackAdapter = force
	}
}
