package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/caarlos0/env"
)

const (
	DefaultServerAddr = ":8080"
	DefaultBaseURL    = "http://localhost:8080"
	DefaultQRDir      = "static/qrcodes"
	DefaultSecretKey  = "guess_me"
	DefaultPprofAddr  = "localhost:6060"
)

// Config содержит конфигурацию приложения.
// Приоритет источников: флаги > переменные окружения > JSON-файл > умолчания.
type Config struct {
	ServerAddr    string `json:"server_address" env:"SERVER_ADDRESS"`
	BaseURL       string `json:"base_url" env:"BASE_URL"`
	FilePath      string `json:"file_storage_path" env:"FILE_STORAGE_PATH"`
	DBurl         string `json:"database_dsn" env:"DATABASE_DSN"`
	SecretKey     string `env:"KEY"`
	QRDir         string `json:"qr_dir" env:"QR_DIR"`
	AuditFile     string `env:"AUDIT_FILE"`
	AuditURL      string `env:"AUDIT_URL"`
	PprofAddr     string `env:"PPROF_ADDRESS"`
	TrustedSubnet string `json:"trusted_subnet" env:"TRUSTED_SUBNET"`
}

func NewConfig() *Config {
	c := &Config{
		ServerAddr: DefaultServerAddr,
		BaseURL:    DefaultBaseURL,
		QRDir:      DefaultQRDir,
		SecretKey:  DefaultSecretKey,
		PprofAddr:  DefaultPprofAddr,
	}

	configFile := getConfigPath()
	c.loadFromFile(configFile)
	c.getArgsFromEnv()
	c.getArgsFromCli()

	return c
}

// getConfigPath ищет путь конфиг-файла до разбора остальных флагов
func getConfigPath() string {
	for i, arg := range os.Args {
		if (arg == "-c" || arg == "-config") && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return os.Getenv("CONFIG")
}

func (c *Config) loadFromFile(filename string) {
	if filename == "" {
		return
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return
	}
	json.Unmarshal(data, c)
}

func (c *Config) getArgsFromCli() {
	flag.StringVar(&c.ServerAddr, "a", c.ServerAddr, "server host")
	flag.StringVar(&c.BaseURL, "b", c.BaseURL, "base url for short links")
	flag.StringVar(&c.FilePath, "f", c.FilePath, "file storage path")
	flag.StringVar(&c.DBurl, "d", c.DBurl, "database DSN")
	flag.StringVar(&c.SecretKey, "k", c.SecretKey, "secret key for auth cookies")
	flag.StringVar(&c.QRDir, "q", c.QRDir, "directory for QR artifacts")
	flag.StringVar(&c.AuditFile, "audit-file", c.AuditFile, "audit file path")
	flag.StringVar(&c.AuditURL, "audit-url", c.AuditURL, "audit server URL")
	flag.StringVar(&c.PprofAddr, "pprof", c.PprofAddr, "pprof server address")
	flag.StringVar(&c.TrustedSubnet, "t", c.TrustedSubnet, "trusted subnet (CIDR) for internal endpoints")
	flag.String("c", "", "config file path")
	flag.String("config", "", "config file path")
	flag.Parse()
}

func (c *Config) getArgsFromEnv() {
	if err := env.Parse(c); err != nil {
		log.Fatal(err)
	}
}
