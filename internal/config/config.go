package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port      int
	LogDir    string
	StaticDir string

	// Thermal sensor (MLX90640)
	MLXSimulate         bool
	MLXRefreshHz        int
	MLXRetries          int
	MLXRetryDelay       time.Duration
	ThermalReadInterval time.Duration
	ThermalMaxAge       time.Duration

	// Thermal heatmap stream
	ThermalStreamWidth    int
	ThermalStreamHeight   int
	ThermalStreamInterval time.Duration

	// USB camera
	CameraEnabled bool
	CameraPath    string
	CameraIndex   int
	CameraWidth   int
	CameraHeight  int
	CameraReadFPS float64

	// Camera MJPEG stream
	TargetFPS         float64
	StreamWidth       int
	StreamHeight      int
	StreamFrameMaxAge time.Duration
	JPEGQuality       int

	// Temperature history
	TempHistorySize int

	// Snapshot gallery
	SnapshotDir string
	DBPath      string
}

func Load() *Config {
	return &Config{
		Port:      getEnvAsInt("PORT", 8080),
		LogDir:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDir: getEnv("STATIC_DIR", filepath.Join(".", "static")),

		MLXSimulate:         getEnvAsBool("MLX_SIMULATE", false),
		MLXRefreshHz:        getEnvAsInt("MLX_REFRESH", 4),
		MLXRetries:          getEnvAsInt("MLX_RETRIES", 3),
		MLXRetryDelay:       getEnvAsDuration("MLX_RETRY_DELAY", 10*time.Millisecond),
		ThermalReadInterval: getEnvAsDuration("THERMAL_READ_INTERVAL", 250*time.Millisecond),
		ThermalMaxAge:       getEnvAsDuration("THERMAL_MAX_AGE", 2*time.Second),

		ThermalStreamWidth:    getEnvAsInt("THERMAL_STREAM_WIDTH", 480),
		ThermalStreamHeight:   getEnvAsInt("THERMAL_STREAM_HEIGHT", 640),
		ThermalStreamInterval: getEnvAsDuration("THERMAL_STREAM_INTERVAL", 250*time.Millisecond),

		CameraEnabled: getEnvAsBool("CAMERA_ENABLED", true),
		CameraPath:    getEnv("CAMERA_PATH", "/dev/v4l/by-id/usb-Sonix_Technology_Co.__Ltd._Webcam_Webcam-video-index0"),
		CameraIndex:   getEnvAsInt("CAMERA_INDEX", 0),
		CameraWidth:   getEnvAsInt("CAMERA_WIDTH", 640),
		CameraHeight:  getEnvAsInt("CAMERA_HEIGHT", 480),
		CameraReadFPS: getEnvAsFloat("CAMERA_READ_FPS", 20),

		TargetFPS:         getEnvAsFloat("TARGET_FPS", 15),
		StreamWidth:       getEnvAsInt("STREAM_WIDTH", 640),
		StreamHeight:      getEnvAsInt("STREAM_HEIGHT", 480),
		StreamFrameMaxAge: getEnvAsDuration("STREAM_FRAME_MAX_AGE", 2*time.Second),
		JPEGQuality:       getEnvAsInt("JPEG_QUALITY", 70),

		TempHistorySize: getEnvAsInt("TEMP_HISTORY_SIZE", 1000),

		SnapshotDir: getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		DBPath:      getEnv("DB_PATH", filepath.Join(".", "data", "snapshots.db")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare numbers are taken as seconds.
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	}
	return defaultValue
}
