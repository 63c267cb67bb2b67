package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries everything the booth needs to run: which camera to open,
// how the capture ritual is timed, where sessions are archived, and which
// backend distributes the finished strips.
type Config struct {
	Camera  Camera
	Ritual  Ritual
	Backend Backend
	// Template is an optional image painted behind the strip slots.
	Template string
	Archive  string
	Parties  string
	Log      Log
}

// Camera selects and shapes the live feed source.
type Camera struct {
	// Device is a V4L2 device path, e.g. /dev/video0.
	Device string
	// Stream is an MJPEG-over-HTTP URL. When set it wins over Device.
	Stream string
	// Synthetic swaps in a generated feed. Useful without hardware.
	Synthetic bool
	Width     int
	Height    int
	Buffers   int
}

// Ritual holds the capture ceremony timings.
type Ritual struct {
	Shots         int
	CountdownFrom int
	CountdownStep time.Duration
	Ready         time.Duration
	Flash         time.Duration
	Review        time.Duration
	UploadRamp    time.Duration
	UploadCap     float64
}

// Backend selects where finished strips go.
type Backend struct {
	// Kind is "drive" or "local".
	Kind     string
	Endpoint string
	Token    string
	Instance string
	// Folder is the remote parent folder session folders are created under.
	Folder string
}

type Log struct {
	Path  string
	Level string
}

// Load reads .booth.yaml (cwd, then $BOOTH_CONFIG_PATH, then home) and
// environment variables prefixed BOOTH_. Missing files are fine; every
// value has a default.
func Load() (*Config, error) {
	viper.SetDefault("camera.device", "/dev/video0")
	viper.SetDefault("camera.stream", "")
	viper.SetDefault("camera.synthetic", false)
	viper.SetDefault("camera.width", 1280)
	viper.SetDefault("camera.height", 720)
	viper.SetDefault("camera.buffers", 2)

	viper.SetDefault("ritual.shots", 4)
	viper.SetDefault("ritual.countdown_from", 3)
	viper.SetDefault("ritual.countdown_step", time.Second)
	viper.SetDefault("ritual.ready", 3*time.Second)
	viper.SetDefault("ritual.flash", 500*time.Millisecond)
	viper.SetDefault("ritual.review", 2*time.Second)
	viper.SetDefault("ritual.upload_ramp", 8*time.Second)
	viper.SetDefault("ritual.upload_cap", 0.95)

	viper.SetDefault("backend.kind", "local")
	viper.SetDefault("backend.endpoint", "")
	viper.SetDefault("backend.token", "")
	viper.SetDefault("backend.instance", "")
	viper.SetDefault("backend.folder", "")

	viper.SetDefault("template", "")
	viper.SetDefault("archive", "~/.booth/archive")
	viper.SetDefault("parties", "~/.booth/parties.json")
	viper.SetDefault("log.path", "~/.booth/booth.log")
	viper.SetDefault("log.level", "info")

	viper.SetConfigName(".booth") // .yaml is implicit
	viper.SetEnvPrefix("BOOTH")
	viper.AutomaticEnv()

	if override := os.Getenv("BOOTH_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Camera: Camera{
			Device:    viper.GetString("camera.device"),
			Stream:    viper.GetString("camera.stream"),
			Synthetic: viper.GetBool("camera.synthetic"),
			Width:     viper.GetInt("camera.width"),
			Height:    viper.GetInt("camera.height"),
			Buffers:   viper.GetInt("camera.buffers"),
		},
		Ritual: Ritual{
			Shots:         viper.GetInt("ritual.shots"),
			CountdownFrom: viper.GetInt("ritual.countdown_from"),
			CountdownStep: viper.GetDuration("ritual.countdown_step"),
			Ready:         viper.GetDuration("ritual.ready"),
			Flash:         viper.GetDuration("ritual.flash"),
			Review:        viper.GetDuration("ritual.review"),
			UploadRamp:    viper.GetDuration("ritual.upload_ramp"),
			UploadCap:     viper.GetFloat64("ritual.upload_cap"),
		},
		Backend: Backend{
			Kind:     viper.GetString("backend.kind"),
			Endpoint: viper.GetString("backend.endpoint"),
			Token:    viper.GetString("backend.token"),
			Instance: viper.GetString("backend.instance"),
			Folder:   viper.GetString("backend.folder"),
		},
		Template: expand(viper.GetString("template")),
		Archive:  expand(viper.GetString("archive")),
		Parties:  expand(viper.GetString("parties")),
		Log: Log{
			Path:  expand(viper.GetString("log.path")),
			Level: viper.GetString("log.level"),
		},
	}
	return cfg, nil
}

// expand resolves a leading ~ against the user's home directory. Paths that
// fail to expand are returned untouched.
func expand(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
