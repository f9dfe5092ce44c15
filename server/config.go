package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config 服务运行配置；网格、速度等默认值与原版游戏一致（1200×1000 画布，40px 格子，12 TPS）
type Config struct {
	Addr     string
	LogFile  string
	LogLevel string
	// LogConsole 同时输出到 stderr
	LogConsole bool

	CellSize        int // 像素，只下发给客户端用于绘制
	GridWidth       int // 格子数
	GridHeight      int
	TickRate        int // 每秒 Tick 数
	MaxCollectibles int
	Wrap            bool

	DefaultRoom string
	SendQueue   int // 每个连接的发送队列长度
	MaxNameLen  int
	StaticDir   string
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Addr:            ":4001",
		LogFile:         "app.log",
		LogLevel:        "info",
		CellSize:        40,
		GridWidth:       30,
		GridHeight:      25,
		TickRate:        12,
		MaxCollectibles: 1,
		Wrap:            true,
		DefaultRoom:     "room-1",
		SendQueue:       64,
		MaxNameLen:      24,
		StaticDir:       "web",
	}
}

// LoadConfig 读取可选的 .env 文件，再用 SNAKE_* 环境变量覆盖默认值。
// envFile 不存在不算错误。
func LoadConfig(envFile string) (Config, error) {
	cfg := DefaultConfig()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var err error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("%s: %w", key, perr)
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" || err != nil {
			return
		}
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("%s: %w", key, perr)
			return
		}
		*dst = b
	}

	str("SNAKE_ADDR", &cfg.Addr)
	str("SNAKE_LOG_FILE", &cfg.LogFile)
	str("SNAKE_LOG_LEVEL", &cfg.LogLevel)
	flag("SNAKE_LOG_CONSOLE", &cfg.LogConsole)
	num("SNAKE_CELL_SIZE", &cfg.CellSize)
	num("SNAKE_GRID_WIDTH", &cfg.GridWidth)
	num("SNAKE_GRID_HEIGHT", &cfg.GridHeight)
	num("SNAKE_TICK_RATE", &cfg.TickRate)
	num("SNAKE_MAX_COLLECTIBLES", &cfg.MaxCollectibles)
	flag("SNAKE_WRAP", &cfg.Wrap)
	str("SNAKE_DEFAULT_ROOM", &cfg.DefaultRoom)
	num("SNAKE_SEND_QUEUE", &cfg.SendQueue)
	num("SNAKE_MAX_NAME_LEN", &cfg.MaxNameLen)
	str("SNAKE_STATIC_DIR", &cfg.StaticDir)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// Validate 校验数值范围
func (c Config) Validate() error {
	switch {
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, c.CellSize)
	case c.GridWidth <= 0 || c.GridHeight <= 0:
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfig, c.GridWidth, c.GridHeight)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	case c.MaxCollectibles < 0:
		return fmt.Errorf("%w: max collectibles must not be negative, got %d", ErrInvalidConfig, c.MaxCollectibles)
	case c.SendQueue <= 0:
		return fmt.Errorf("%w: send queue must be positive, got %d", ErrInvalidConfig, c.SendQueue)
	case c.DefaultRoom == "":
		return fmt.Errorf("%w: default room must not be empty", ErrInvalidConfig)
	}
	return nil
}

// TickInterval 每个 Tick 的时长，12 TPS 约 83ms
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
