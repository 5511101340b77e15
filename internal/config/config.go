// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

// AppConfig holds the full application configuration: base settings from the
// environment plus runtime-updatable AI provider settings persisted to
// config.json under the data dir.
type AppConfig struct {
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	LogMode   string `json:"log_mode"`
	DebugMode bool   `json:"debug_mode"`

	// Engine tuning knobs.
	HoverCommitGapMS millis `json:"hover_commit_gap_ms"` // continuous-drag commit rate limit
	AnalysisDelayMS  millis `json:"analysis_delay_ms"`   // artificial delay for AI-modeled passes

	// AI provider settings.
	LLMProvider string            `json:"llm_provider"`
	LLMConfig   map[string]string `json:"llm_config"`
}

// millis is a millisecond count stored as a plain JSON number.
type millis int

// Config holds the base settings loaded from the environment.
type Config struct {
	Port             string
	OpenAIAPIKey     string
	DataDir          string
	LogMode          string
	DebugMode        bool
	HoverCommitGapMS int
	AnalysisDelayMS  int
}

// Load reads base configuration from the environment, consulting an optional
// .env file.
func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		DataDir:          getEnvPath("DATA_DIR", "data"),
		LogMode:          getEnv("LOG_MODE", "dev"),
		DebugMode:        getEnvBool("DEBUG_MODE", true),
		HoverCommitGapMS: getEnvInt("HOVER_COMMIT_GAP_MS", 150),
		AnalysisDelayMS:  getEnvInt("ANALYSIS_DELAY_MS", 1500),
	}

	if config.OpenAIAPIKey == "" {
		log.Println("warning: no OpenAI API key configured; AI features need a provider set via the settings API")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}
	return path
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// InitConfig initializes the configuration system, overlaying a previously
// saved config.json (AI provider settings only) on top of the environment.
func InitConfig(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	baseConfig, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = &AppConfig{
		Port:             baseConfig.Port,
		DataDir:          baseConfig.DataDir,
		LogMode:          baseConfig.LogMode,
		DebugMode:        baseConfig.DebugMode,
		HoverCommitGapMS: millis(baseConfig.HoverCommitGapMS),
		AnalysisDelayMS:  millis(baseConfig.AnalysisDelayMS),
		LLMProvider:      "openai",
		LLMConfig: map[string]string{
			"api_key":       baseConfig.OpenAIAPIKey,
			"default_model": "gpt-4o",
		},
	}

	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		data, err := os.ReadFile(configFile)
		if err == nil {
			var savedConfig AppConfig
			if json.Unmarshal(data, &savedConfig) == nil {
				// Environment always wins for base settings; the file only
				// carries provider settings and tuning knobs.
				savedConfig.Port = baseConfig.Port
				savedConfig.DataDir = baseConfig.DataDir
				savedConfig.LogMode = baseConfig.LogMode
				savedConfig.DebugMode = baseConfig.DebugMode

				if savedConfig.HoverCommitGapMS <= 0 {
					savedConfig.HoverCommitGapMS = millis(baseConfig.HoverCommitGapMS)
				}
				if savedConfig.AnalysisDelayMS < 0 {
					savedConfig.AnalysisDelayMS = millis(baseConfig.AnalysisDelayMS)
				}
				if savedConfig.LLMConfig != nil && savedConfig.LLMConfig["api_key"] == "" {
					savedConfig.LLMConfig["api_key"] = baseConfig.OpenAIAPIKey
				}

				currentConfig = &savedConfig
			}
		}
	}

	return SaveConfig()
}

// GetCurrentConfig returns a copy of the current configuration.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		baseConfig, _ := Load()
		return &AppConfig{
			Port:             baseConfig.Port,
			DataDir:          baseConfig.DataDir,
			LogMode:          baseConfig.LogMode,
			DebugMode:        baseConfig.DebugMode,
			HoverCommitGapMS: millis(baseConfig.HoverCommitGapMS),
			AnalysisDelayMS:  millis(baseConfig.AnalysisDelayMS),
			LLMProvider:      "openai",
			LLMConfig: map[string]string{
				"api_key": baseConfig.OpenAIAPIKey,
			},
		}
	}

	configCopy := *currentConfig
	return &configCopy
}

// HoverCommitGapMilliseconds returns the continuous-drag commit gap.
func (c *AppConfig) HoverCommitGapMilliseconds() int {
	return int(c.HoverCommitGapMS)
}

// AnalysisDelayMilliseconds returns the artificial AI-pass delay.
func (c *AppConfig) AnalysisDelayMilliseconds() int {
	return int(c.AnalysisDelayMS)
}

// UpdateLLMConfig swaps the active AI provider settings and persists them.
func UpdateLLMConfig(provider string, config map[string]string) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("configuration system not initialized")
	}

	currentConfig.LLMProvider = provider
	currentConfig.LLMConfig = config

	return saveConfigLocked()
}

// SaveConfig persists the current configuration to config.json.
func SaveConfig() error {
	return saveConfigLocked()
}

func saveConfigLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("no configuration to save")
	}

	dir := filepath.Dir(configFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}
