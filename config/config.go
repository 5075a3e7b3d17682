package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const defaultConfigFilePath = "/etc/kidsclub/config.yaml"

var kidsClubConf *KidsClubConfModel

func LoadConfig() (*KidsClubConfModel, error) {
	filePath := os.Getenv("KIDSCLUB_CONFIG")
	if filePath == "" {
		filePath = defaultConfigFilePath
	}

	if err := loadViperConfig(filePath); err != nil {
		return nil, err
	}

	return kidsClubConf, nil
}

func loadViperConfig(filePath string) error {
	v := viper.New()
	v.SetConfigFile(filePath)
	err := v.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading viper config: %w", err)
	}

	setEnvConf(v)
	setDefault(v)

	conf := new(KidsClubConfModel)
	err = v.Unmarshal(conf)
	if err != nil {
		return fmt.Errorf("error loading viper config to struct: %w", err)
	}

	if conf.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is not set, export JWT_SECRET")
	}

	kidsClubConf = conf
	loadAdminPhones()

	if conf.LogLevel == "debug" {
		masked := *conf
		masked.JWT.Secret = "***"
		masked.Yukassa.SecretKey = "***"
		masked.SMS.Password = "***"
		masked.SMS.Secret = "***"
		masked.DB.Password = "***"
		if val, err := json.MarshalIndent(masked, "", "  "); err == nil {
			fmt.Println(string(val))
		}
	}

	return nil
}

func setEnvConf(v *viper.Viper) {
	v.BindEnv("yukassa.shop_id", "YUKASSA_SHOP_ID")
	v.BindEnv("yukassa.secret_key", "YUKASSA_SECRET_KEY")
	v.BindEnv("yukassa.tax_system_code", "YUKASSA_TAX_SYSTEM_CODE")
	v.BindEnv("yukassa.vat_code", "YUKASSA_VAT_CODE")
	v.BindEnv("sms.login", "SMSC_LOGIN")
	v.BindEnv("sms.password", "SMSC_PASSWORD")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("redis.url", "KIDSCLUB_REDIS_URL")
	v.BindEnv("db.username", "KIDSCLUB_DB_USERNAME")
	v.BindEnv("db.password", "KIDSCLUB_DB_PASSWORD")
}

func setDefault(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("mode", "production")
	v.SetDefault("timezone", "Europe/Moscow")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("store.driver", "memory")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("jwt.ttl", "168h")
	v.SetDefault("otp.ttl", "10m")
	v.SetDefault("otp.resend_after", "60s")
	v.SetDefault("otp.max_attempts", 3)
	v.SetDefault("sms.url", "https://smsc.ru/sys/send.php")
	v.SetDefault("yukassa.url", "https://api.yookassa.ru/v3")
	v.SetDefault("yukassa.currency", "RUB")
	v.SetDefault("yukassa.tax_system_code", 1)
	v.SetDefault("yukassa.vat_code", 1)
	v.SetDefault("notifications.interval", "60s")
	v.SetDefault("notifications.reminder_minutes", 30)
	v.SetDefault("notifications.expiry_days", 3)
	v.SetDefault("notifications.low_balance_threshold", 50)
	v.SetDefault("notifications.prune_interval", "24h")
	v.SetDefault("notifications.retention", "168h")
	v.SetDefault("notifications.simulated_latency", "500ms")
	v.SetDefault("rate_limit.sms_per_minute", 20)
	v.SetDefault("rate_limit.burst", 5)
}

// GetConfig returns env config
func GetConfig() *KidsClubConfModel {
	return kidsClubConf
}
