package window

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/engine/input"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/logger"
)

// GLFWWindow wraps a GLFW window. It is the backend that can request a
// transparent framebuffer.
type GLFWWindow struct {
	config  Config
	log     *zap.Logger
	win     *glfw.Window
	pending []input.Event
}

var _ Window = (*GLFWWindow)(nil)

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

// NewGLFW creates a GLFW window with an OpenGL context.
func NewGLFW(cfg Config) (*GLFWWindow, error) {
	w := &GLFWWindow{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwInit failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.AlphaBits, 8)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, boolHint(!cfg.Borderless))
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(cfg.Transparent))

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwCreateWindow failed: %w", err)
	}
	w.win = win
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pending = append(w.pending, input.Event{Type: input.EventResize, Width: width, Height: height})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.pending = append(w.pending, input.Event{Type: input.EventQuit})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if e, ok := input.FromGLFWKey(key, action); ok {
			w.pending = append(w.pending, e)
		}
	})

	dw, dh := w.FramebufferSize()
	w.log.Info("window created",
		zap.String("backend", "glfw"),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Uint32("drawable_width", dw),
		zap.Uint32("drawable_height", dh),
		zap.Bool("transparent", cfg.Transparent),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func (w *GLFWWindow) FramebufferSize() (uint32, uint32) {
	width, height := w.win.GetFramebufferSize()
	return clampSize(int32(width), int32(height))
}

func (w *GLFWWindow) MakeCurrent() error {
	if w.win == nil {
		return surface.ErrNoContext
	}
	w.win.MakeContextCurrent()
	return nil
}

func (w *GLFWWindow) IsCurrent() bool {
	return w.win != nil && glfw.GetCurrentContext() == w.win
}

func (w *GLFWWindow) SwapBuffers() error {
	w.win.SwapBuffers()
	return nil
}

func (w *GLFWWindow) ProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

// PollEvents runs GLFW callbacks and forwards what they queued.
func (w *GLFWWindow) PollEvents(in *input.Input) {
	glfw.PollEvents()
	for _, e := range w.pending {
		in.Push(e)
	}
	w.pending = w.pending[:0]
}

// Close destroys the window and terminates GLFW.
func (w *GLFWWindow) Close() {
	w.log.Info("closing window")
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	glfw.Terminate()
}
