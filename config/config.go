package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Assets AssetsConfig
	Render RenderConfig
	Debug  bool
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	render, err := loadRenderConfig()
	if err != nil {
		return nil, err
	}

	debug, err := parseBoolEnv("MANOSABA_DEBUG", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Assets: AssetsConfig{
			Dir:             getEnvOrDefault("MANOSABA_ASSETS_DIR", "assets"),
			PreferencesPath: getEnvOrDefault("MANOSABA_PREFS_PATH", "data/preferences.json"),
		},
		Render: render,
		Debug:  debug,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// AssetsConfig 描述资源目录与偏好文件位置。
type AssetsConfig struct {
	Dir             string
	PreferencesPath string
}

// RenderConfig 描述渲染池配置。
type RenderConfig struct {
	Workers int
	Timeout time.Duration
}

// loadServerConfig 解析服务器监听地址，MANOSABA_ADDR 优先于 PORT。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("MANOSABA_ADDR"))
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadRenderConfig() (RenderConfig, error) {
	workers := 4
	if override, err := parseOptionalIntEnv("MANOSABA_RENDER_WORKERS"); err != nil {
		return RenderConfig{}, err
	} else if override != nil {
		if *override < 1 {
			workers = 1
		} else {
			workers = *override
		}
	}

	timeout, err := parseDurationEnv("MANOSABA_RENDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return RenderConfig{}, err
	}

	return RenderConfig{Workers: workers, Timeout: timeout}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

// parseDurationEnv 接受 time.ParseDuration 格式，纯数字按秒处理。
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
