package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// GameConfig 是比賽引擎的調校參數
type GameConfig struct {
	TickMs           int    `mapstructure:"tick_ms"`            // tick 週期（毫秒）
	ReadyDelayFrames uint64 `mapstructure:"ready_delay_frames"` // 開賽前的暖身幀數
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 引擎參數的預設值，設定檔可覆寫
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("game.tick_ms", 17)
	viper.SetDefault("game.ready_delay_frames", 800)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
