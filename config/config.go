package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("cmc_api_key", "CMC_API_KEY")
		viper.BindEnv("etherscan_api_key", "ETHSCAN_API_KEY")
		viper.BindEnv("tracking_api_url", "API_URL")
		viper.BindEnv("tracking_api_key", "API_KEY")
		viper.BindEnv("news_feed_url", "NEWS_FEED_URL")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("news_feed_url", "https://www.coindesk.com/arc/outboundfeeds/rss/")
		viper.SetDefault("db_path", "data/bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
