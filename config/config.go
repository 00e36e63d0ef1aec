package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Хранилища журнала результатов.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	SerialPort      string
	BaudRate        int
	CameraDevice    int
	ModelPath       string
	ModelLabels     []string
	ConfidenceFloor float64
	SizeSmallMax    float64 // диагональ в пикселях, до которой яйцо Small
	SizeMediumMax   float64 // диагональ в пикселях, до которой яйцо Medium
	SettleDelay     time.Duration
	CaptureCooldown time.Duration
	SaveDir         string
	ResultStore     string
	LogPath         string
	HTTPAddr        string
	TelegramToken   string // пустой: бот выключен
	LogDir          string // пустой: только консоль
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	var errs []error
	saveDir := getEnv("SAVE_DIR", filepath.Join(".", "eggs"))
	store := strings.ToLower(getEnv("RESULT_STORE", StoreJSON))

	cfg := &Config{
		SerialPort:      getEnv("SERIAL_PORT", "/dev/ttyUSB0"),
		BaudRate:        getEnvAsInt("BAUD_RATE", 115200, &errs),
		CameraDevice:    getEnvAsInt("CAMERA_DEVICE", 0, &errs),
		ModelPath:       getEnv("MODEL_PATH", "final_best.onnx"),
		ModelLabels:     getEnvAsList("MODEL_LABELS", []string{"AA - Premium", "A - Good", "B - Fair", "Inedible"}),
		ConfidenceFloor: getEnvAsFloat("CONFIDENCE_FLOOR", 0.3, &errs),
		SizeSmallMax:    getEnvAsFloat("SIZE_SMALL_MAX", 300, &errs),
		SizeMediumMax:   getEnvAsFloat("SIZE_MEDIUM_MAX", 375, &errs),
		SettleDelay:     getEnvAsDuration("SETTLE_DELAY", 1300*time.Millisecond, &errs),
		CaptureCooldown: getEnvAsDuration("CAPTURE_COOLDOWN", 2*time.Second, &errs),
		SaveDir:         saveDir,
		ResultStore:     store,
		LogPath:         getEnv("LOG_PATH", defaultLogPath(saveDir, store)),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8000"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		LogDir:          os.Getenv("LOG_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	var errs []error
	switch c.ResultStore {
	case StoreJSON, StoreSQLite, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("RESULT_STORE: unknown store %q", c.ResultStore))
	}
	if c.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("BAUD_RATE: must be positive, got %d", c.BaudRate))
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		errs = append(errs, fmt.Errorf("CONFIDENCE_FLOOR: must be in [0, 1], got %v", c.ConfidenceFloor))
	}
	if c.SizeSmallMax <= 0 || c.SizeMediumMax <= c.SizeSmallMax {
		errs = append(errs, fmt.Errorf("SIZE_SMALL_MAX/SIZE_MEDIUM_MAX: thresholds must be ascending, got %v/%v", c.SizeSmallMax, c.SizeMediumMax))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("SETTLE_DELAY: must not be negative, got %v", c.SettleDelay))
	}
	if c.CaptureCooldown < 0 {
		errs = append(errs, fmt.Errorf("CAPTURE_COOLDOWN: must not be negative, got %v", c.CaptureCooldown))
	}
	if len(c.ModelLabels) == 0 {
		errs = append(errs, errors.New("MODEL_LABELS: at least one label is required"))
	}
	return errors.Join(errs...)
}

func defaultLogPath(saveDir, store string) string {
	if store == StoreSQLite {
		return filepath.Join(saveDir, "egg_results.db")
	}
	return filepath.Join(saveDir, "egg_results.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return floatValue
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
