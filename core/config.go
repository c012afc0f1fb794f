package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	// Config holds the application's settings; built once at startup and
	// injected everywhere it is needed.
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		AppName      string
		RollbarToken string
		StateDir     string
		Server       ServerConfig
		Session      SessionConfig
	}

	ServerConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	SessionConfig struct {
		// GraceWindow is subtracted from the token's validity before arming
		// the local logout timer, so we log out slightly before the server
		// would start rejecting the token.
		GraceWindow time.Duration
		// RotationExtendsExpiry selects the expiry anchor: when false
		// (default) the session's lifetime is fixed at login; when true a
		// rotated token restarts the validity window.
		RotationExtendsExpiry bool
	}
)

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the env name).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Academia")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("stateDir", defaultStateDir())
	conf.SetDefault("serverBaseUrl", "http://localhost:8000")
	conf.SetDefault("serverTimeout", 30*time.Second)
	conf.SetDefault("sessionGraceWindow", 10*time.Second)
	conf.SetDefault("sessionRotationExtendsExpiry", false)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if dotEnvPath := findDotEnv(env); dotEnvPath != "" {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		RollbarToken: conf.GetString("rollbarToken"),
		StateDir:     conf.GetString("stateDir"),
		Server: ServerConfig{
			BaseURL: strings.TrimRight(conf.GetString("serverBaseUrl"), "/"),
			Timeout: conf.GetDuration("serverTimeout"),
		},
		Session: SessionConfig{
			GraceWindow:           conf.GetDuration("sessionGraceWindow"),
			RotationExtendsExpiry: conf.GetBool("sessionRotationExtendsExpiry"),
		},
	}
}

// findDotEnv walks up from the working directory looking for a config/.env.<env> file.
// go-test changes the working directory to the test package being run during tests...
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func findDotEnv(env string) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	name := ".env." + strings.ToLower(env)
	for currDir := wd; ; {
		path := filepath.Join(currDir, "config", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return ""
		}
		currDir = newDir
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "academia")
	}
	return ".academia"
}
