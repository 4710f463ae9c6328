package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации.
// Выбирается один раз при старте и передаётся в конструкторы явно.
type Config struct {
	Game       GameConfig      `yaml:"game"`
	Player     PlayerConfig    `yaml:"player"`
	Behaviour  BehaviourConfig `yaml:"behaviour"`
	MapObjects MapObjectConfig `yaml:"map_objects"`
	Metrics    MetricsConfig   `yaml:"metrics"`
	Log        LogConfig       `yaml:"log"`
}

type GameConfig struct {
	Debug    bool  `yaml:"debug"`
	TickRate int   `yaml:"tick_rate"` // тиков в секунду
	Seed     int64 `yaml:"seed"`      // 0 - случайный
}

type PlayerConfig struct {
	Speed    float64 `yaml:"speed"` // пикселей в секунду
	Lives    int     `yaml:"lives"`
	MaxLives int     `yaml:"max_lives"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Texture  string  `yaml:"texture"`
}

type BehaviourConfig struct {
	CollideCooldownMs float64 `yaml:"collide_cooldown_ms"`
	WanderSpeed       float64 `yaml:"wander_speed"`
	StandbySpeed      float64 `yaml:"standby_speed"`
	AggressiveSpeed   float64 `yaml:"aggressive_speed"`
	ZoneMargin        float64 `yaml:"zone_margin"`
	DirectionMinMs    float64 `yaml:"direction_min_ms"`
	DirectionMaxMs    float64 `yaml:"direction_max_ms"`
	NpcWidth          float64 `yaml:"npc_width"`
	NpcHeight         float64 `yaml:"npc_height"`
}

type MapObjectConfig struct {
	IconWidth  float64 `yaml:"icon_width"`
	IconHeight float64 `yaml:"icon_height"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // пусто - HTTP /metrics не поднимается
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Game: GameConfig{
			TickRate: 60,
		},
		Player: PlayerConfig{
			Speed:    300,
			Lives:    3,
			MaxLives: 5,
			Width:    24,
			Height:   32,
			Texture:  "images/player_f.png",
		},
		Behaviour: BehaviourConfig{
			CollideCooldownMs: 1000,
			WanderSpeed:       100,
			StandbySpeed:      60,
			AggressiveSpeed:   160,
			ZoneMargin:        10,
			DirectionMinMs:    500,
			DirectionMaxMs:    1000,
			NpcWidth:          32,
			NpcHeight:         32,
		},
		MapObjects: MapObjectConfig{
			IconWidth:  32,
			IconHeight: 32,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// GetTickRate возвращает частоту тиков: config -> env -> default
func (g *GameConfig) GetTickRate() int {
	return getIntWithEnvFallback(g.TickRate, "GAME_TICK_RATE", 60)
}

// IsDebug возвращает флаг отладки: config или env GAME_DEBUG
func (g *GameConfig) IsDebug() bool {
	if g.Debug {
		return true
	}
	if v := os.Getenv("GAME_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		return err == nil && debug
	}
	return false
}

// GetAddr возвращает адрес /metrics: config -> env GAME_METRICS_ADDR
func (m *MetricsConfig) GetAddr() string {
	if m.Addr != "" {
		return m.Addr
	}
	return os.Getenv("GAME_METRICS_ADDR")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Player.Lives <= 0 {
		return fmt.Errorf("player.lives должно быть > 0, получено %d", c.Player.Lives)
	}
	if c.Player.MaxLives < c.Player.Lives {
		return fmt.Errorf("player.max_lives (%d) меньше player.lives (%d)", c.Player.MaxLives, c.Player.Lives)
	}
	if c.Behaviour.DirectionMaxMs <= c.Behaviour.DirectionMinMs {
		return fmt.Errorf("behaviour.direction_max_ms (%v) должно быть больше direction_min_ms (%v)",
			c.Behaviour.DirectionMaxMs, c.Behaviour.DirectionMinMs)
	}
	if c.Behaviour.CollideCooldownMs < 0 {
		return fmt.Errorf("behaviour.collide_cooldown_ms не может быть отрицательным")
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("конфигурация %s: %w", path, err)
	}

	return cfg, nil
}
