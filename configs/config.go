package configs

import (
	"errors"

	"github.com/skilldesk/marketplace/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		SECRET string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	Deposit struct {
		// Fraction of a client's unpaid job total a single deposit may not exceed.
		MaxRatio float64 `mapstructure:"max-ratio"`
	} `mapstructure:"deposit"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("deposit.max-ratio", 0.25)

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)
}
