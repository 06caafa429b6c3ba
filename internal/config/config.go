// Package config handles overlay configuration loading and management.
package config

// Config holds all overlay settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Asset   AssetConfig   `yaml:"asset"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// Host window backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Face culling modes. Counter-clockwise triangles are front faces, as in glTF.
const (
	CullBack = "back"
	// CullFront culls counter-clockwise triangles, for assets wound the
	// other way round.
	CullFront = "front"
	CullNone  = "none"
)

// WindowConfig holds host window settings.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Backend     string `yaml:"backend"`     // "sdl" or "glfw"
	Transparent bool   `yaml:"transparent"` // Transparent framebuffer (glfw only)
	Borderless  bool   `yaml:"borderless"`
	VSync       bool   `yaml:"vsync"`
	FPS         int    `yaml:"fps"` // Redraw rate
}

// AssetConfig holds the avatar asset location.
type AssetConfig struct {
	Path string `yaml:"path"` // .glb or .gltf file
}

// CameraConfig holds the fixed camera used to frame the asset.
type CameraConfig struct {
	FOVDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
	AutoFit    bool       `yaml:"auto_fit"` // Derive eye/target from asset bounds
}

// LightConfig holds the single directional light.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`   // Degrees around +Y
	Elevation float32 `yaml:"elevation"` // Degrees above the horizon
}

// RenderConfig holds fixed per-frame render state.
type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color"`
	CullMode   string     `yaml:"cull_mode"` // "back" (cull clockwise), "front" (cull counter-clockwise) or "none"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:       "Layermate",
			Width:       1280,
			Height:      720,
			Backend:     BackendSDL,
			Transparent: true,
			Borderless:  true,
			VSync:       true,
			FPS:         30,
		},
		Asset: AssetConfig{
			Path: "avatar.glb",
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.1,
			Far:        100,
			Eye:        [3]float32{0, 1, 3},
			Target:     [3]float32{0, 1, 0},
			Up:         [3]float32{0, 1, 0},
		},
		Light: LightConfig{
			Azimuth:   30,
			Elevation: 45,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0, 0, 0, 0.01},
			CullMode:   CullBack,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
