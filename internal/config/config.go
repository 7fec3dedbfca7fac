// Package config handles studio configuration loading and management.
package config

// Config holds all studio settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Studio   StudioConfig   `yaml:"studio"`
	Brush    BrushConfig    `yaml:"brush"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`
}

// StudioConfig holds workspace settings.
type StudioConfig struct {
	// ModelPath is the sneaker asset (.glb or .gltf) to load.
	ModelPath string `yaml:"model_path"`
	// BufferSize is the paint buffer resolution per part.
	BufferSize int `yaml:"buffer_size"`
	// StrictOcclusion makes draw strokes respect occluding parts.
	StrictOcclusion bool `yaml:"strict_occlusion"`
	// ExportDir receives committed artwork PNGs.
	ExportDir string `yaml:"export_dir"`
}

// BrushConfig holds the starting drawing tool.
type BrushConfig struct {
	Radius  float32 `yaml:"radius"`
	Opacity float32 `yaml:"opacity"`
	Color   string  `yaml:"color"`
}

// SessionConfig holds commission settings.
type SessionConfig struct {
	// ScriptPath is the customer script; empty runs free play.
	ScriptPath string `yaml:"script_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     800,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Studio: StudioConfig{
			ModelPath:  "assets/sneaker.glb",
			BufferSize: 512,
			ExportDir:  "exports",
		},
		Brush: BrushConfig{
			Radius:  6,
			Opacity: 1.0,
			Color:   "#1a1a1a",
		},
		Session: SessionConfig{
			ScriptPath: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
