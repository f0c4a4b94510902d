// package renderer owns the GPU backend for gradient quad rendering: device
// and surface setup, the shared uniforms, the per-frame transfer scope, and
// the gradient layer and pipelines.
package renderer

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lumen-ui/lumen/common"
	"github.com/lumen-ui/lumen/renderer/buffer"
	"github.com/lumen-ui/lumen/renderer/quad"
)

// PresentMode controls how finished frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting,
	// capping frame rate to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for
	// vertical blank. May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

type backendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	clearColor    wgpu.Color

	constants *constants
	belt      *buffer.Belt
	uniforms  Uniforms

	gradientLayer    *quad.Layer
	gradientPipeline *quad.Pipeline

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// Backend is the gradient rendering backend. The call sequence per frame is
// Prepare, BeginFrame, any number of DrawGradients, EndFrame, Present. All
// methods must be called from the thread that created the backend.
type Backend interface {
	// Device returns the underlying GPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device's default queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// ConfigureSurface reconfigures the surface for a new size and scale
	// factor and rebuilds the shared uniforms to match. This must be called
	// once before the first frame and again whenever the window is resized
	// or moved to a display with a different scale factor.
	//
	// Parameters:
	//   - width: the new surface width in physical pixels
	//   - height: the new surface height in physical pixels
	//   - scale: the window scale factor relating logical to physical pixels
	//
	// Returns:
	//   - error: an error if pipeline creation against the surface format fails
	ConfigureSurface(width, height int, scale float32) error

	// SetPresentMode sets the surface present mode which controls how frames
	// are delivered to the display. A call to ConfigureSurface is required
	// after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Prepare uploads the frame's gradient instances and the current uniforms
	// to the GPU through a transfer scope opened for the duration of the
	// call. It must be called before BeginFrame each frame the instance set
	// or uniforms change.
	//
	// Parameters:
	//   - instances: the frame's gradient instances in draw order
	//
	// Returns:
	//   - error: a frame-fatal error if buffer growth or upload fails
	Prepare(instances []quad.Gradient) error

	// BeginFrame acquires the next swapchain texture, creates a command
	// encoder, and begins the render pass cleared to the configured clear
	// color. Must be paired with EndFrame and Present.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawGradients encodes one instanced draw of the half-open record range
	// [start, end) of the given kind within the current render pass. The
	// range indexes the kind's own prepared sub-sequence, not the mixed
	// frame list.
	//
	// Parameters:
	//   - start: the first instance record to draw
	//   - end: one past the last instance record to draw
	//   - strategy: which gradient kind to draw
	DrawGradients(start, end int, strategy quad.RenderStrategy)

	// EndFrame ends the render pass and submits the command buffer to the
	// GPU. Does not present the surface; call Present after EndFrame to
	// display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain
	// texture. Must be called once per frame after EndFrame.
	Present()

	// Release frees all GPU resources owned by the backend. The backend must
	// not be used afterwards.
	Release()
}

var _ Backend = &backendImpl{}

// NewBackend creates a gradient rendering backend for the given surface. The
// device and queue are requested synchronously; a failure here means no
// usable adapter exists and is returned as an error.
//
// The calling goroutine is locked to its OS thread for the lifetime of the
// backend, as required by the underlying windowing and GPU libraries.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to render to
//   - options: functional options for backend configuration
//
// Returns:
//   - Backend: the backend, ready for ConfigureSurface
//   - error: an error if adapter or device acquisition fails
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendBuilderOption) (Backend, error) {
	runtime.LockOSThread()

	cfg := backendConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	b := &backendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  common.Coalesce(cfg.clearColor, wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}),
	}
	if cfg.presentMode != nil {
		b.SetPresentMode(*cfg.presentMode)
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "lumen.renderer.device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	b.belt = buffer.NewBelt(b.queue)

	b.constants, err = newConstants(d)
	if err != nil {
		return nil, err
	}

	b.gradientLayer, err = quad.NewLayer(d)
	if err != nil {
		return nil, err
	}

	slog.Info("renderer backend created")
	return b, nil
}

func (b *backendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *backendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *backendImpl) ConfigureSurface(width, height int, scale float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	format := capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	// Pipelines are compiled against the surface format, which is only known
	// here. The format never changes for a given surface and adapter, so this
	// happens once.
	if b.gradientPipeline == nil {
		pipeline, err := quad.NewPipeline(b.device, format, b.constants.layout)
		if err != nil {
			return err
		}
		b.gradientPipeline = pipeline
	}

	b.surfaceFormat = &format
	b.uniforms = NewUniforms(width, height, scale)

	slog.Debug("surface configured",
		"width", width,
		"height", height,
		"scale", scale,
		"format", format,
	)
	return nil
}

func (b *backendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *backendImpl) Prepare(instances []quad.Gradient) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.belt.Open()
	defer b.belt.Close()

	if err := b.belt.WriteBuffer(b.constants.buffer, 0, b.uniforms.Marshal()); err != nil {
		return fmt.Errorf("failed to upload uniforms: %w", err)
	}

	return b.gradientLayer.Prepare(b.device, b.belt, instances)
}

func (b *backendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "lumen.renderer.pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.clearColor,
		}},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *backendImpl) DrawGradients(start, end int, strategy quad.RenderStrategy) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || end <= start {
		return
	}

	b.gradientPipeline.Render(b.framePass, b.constants.group, b.gradientLayer, start, end, strategy)
}

func (b *backendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		slog.Error("failed to finish frame encoder", "error", err)
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *backendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	b.frameView.Release()
	b.frameSurface.Release()
	b.frameView = nil
	b.frameSurface = nil
}

func (b *backendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gradientLayer != nil {
		b.gradientLayer.Release()
		b.gradientLayer = nil
	}
	if b.constants != nil {
		b.constants.release()
		b.constants = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
