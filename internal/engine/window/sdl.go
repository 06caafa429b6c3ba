package window

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/engine/input"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/logger"
)

// SDLWindow wraps an SDL2 window and its OpenGL context.
type SDLWindow struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	current   bool
}

var _ Window = (*SDLWindow)(nil)

// NewSDL creates an SDL2 window with an OpenGL context.
func NewSDL(cfg Config) (*SDLWindow, error) {
	w := &SDLWindow{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window exists
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}
	if cfg.Transparent {
		w.log.Warn("SDL2 cannot request a transparent framebuffer; use the glfw backend for see-through output")
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	w.current = true

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	dw, dh := w.FramebufferSize()
	w.log.Info("window created",
		zap.String("backend", "sdl"),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Uint32("drawable_width", dw),
		zap.Uint32("drawable_height", dh),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// FramebufferSize returns the drawable size, which differs from the window
// size on high-DPI displays.
func (w *SDLWindow) FramebufferSize() (uint32, uint32) {
	return clampSize(w.sdlWindow.GLGetDrawableSize())
}

func (w *SDLWindow) MakeCurrent() error {
	if w.glContext == nil {
		return surface.ErrNoContext
	}
	if err := w.sdlWindow.GLMakeCurrent(w.glContext); err != nil {
		w.current = false
		return fmt.Errorf("SDL_GL_MakeCurrent failed: %w", err)
	}
	w.current = true
	return nil
}

// IsCurrent reports whether the last MakeCurrent on this window succeeded.
// The process only ever creates one context.
func (w *SDLWindow) IsCurrent() bool {
	return w.glContext != nil && w.current
}

func (w *SDLWindow) SwapBuffers() error {
	w.sdlWindow.GLSwap()
	return nil
}

func (w *SDLWindow) ProcAddress(name string) unsafe.Pointer {
	return sdl.GLGetProcAddress(name)
}

func (w *SDLWindow) PollEvents(in *input.Input) {
	input.PollSDL(in)
}

// Close destroys the window and cleans up SDL2.
func (w *SDLWindow) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
	w.current = false

	sdl.Quit()
}
