package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	qhttp "diabetespredictor/http"
	"diabetespredictor/logger"
	"diabetespredictor/storage"
	"gopkg.in/yaml.v2"
)

const defaultModelPath = "model/diabetes_model.json"

type Config struct {
	UseLocalModel bool `yaml:"use_local_model"`
	Model         struct {
		Path         string        `yaml:"path"`
		CacheSize    int           `yaml:"cache_size"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"model"`
	Remote storage.RemoteConfig `yaml:"remote"`
	Http   qhttp.ServerConfig   `yaml:"http"`
	Log    logger.Config        `yaml:"log"`
}

func defaultConfig() *Config {
	config := &Config{UseLocalModel: true}
	config.Model.Path = defaultModelPath
	config.Model.CacheSize = 1024
	config.Model.FetchTimeout = 2 * time.Minute
	config.Http = qhttp.DefaultServerConfig()
	config.Log.Level = "info"
	return config
}

// loadConfig reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := applyEnv(config, os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("USE_LOCAL_MODEL"); ok {
		useLocal, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("USE_LOCAL_MODEL: %w", err)
		}
		config.UseLocalModel = useLocal
	}
	if v, ok := lookup("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		config.Http.Port = port
	}

	overrides := map[string]*string{
		"MODEL_PATH":            &config.Model.Path,
		"AWS_ACCESS_KEY_ID":     &config.Remote.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY": &config.Remote.SecretAccessKey,
		"AWS_REGION":            &config.Remote.Region,
		"AWS_BUCKET":            &config.Remote.Bucket,
		"AWS_MODEL_NAME":        &config.Remote.ObjectKey,
		"MODEL_CACHE_DIR":       &config.Remote.CacheDir,
		"LOG_LEVEL":             &config.Log.Level,
		"LOG_FILE":              &config.Log.File,
	}
	for key, dst := range overrides {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.UseLocalModel {
		if c.Model.Path == "" {
			return errors.New("model.path is required when use_local_model is set")
		}
		return nil
	}
	return c.Remote.Validate()
}
