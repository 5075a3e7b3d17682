package config

type KidsClubConfModel struct {
	LogLevel      string        `mapstructure:"log_level"`
	Mode          string        `mapstructure:"mode"`
	Timezone      string        `mapstructure:"timezone"`
	AdminPhones   []string      `mapstructure:"admin_phones"`
	Server        Server        `mapstructure:"server"`
	Store         Store         `mapstructure:"store"`
	DB            DB            `mapstructure:"db"`
	Redis         Redis         `mapstructure:"redis"`
	JWT           JWT           `mapstructure:"jwt"`
	OTP           OTP           `mapstructure:"otp"`
	SMS           SMS           `mapstructure:"sms"`
	Yukassa       Yukassa       `mapstructure:"yukassa"`
	Firebase      Firebase      `mapstructure:"firebase"`
	Notifications Notifications `mapstructure:"notifications"`
	RateLimit     RateLimit     `mapstructure:"rate_limit"`
}

type Server struct {
	Port      int    `mapstructure:"port"`
	APIPrefix string `mapstructure:"api_prefix"`
	// AllowedOrigins is passed to CORS as is, "*" allows everything
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Store selects the key-value driver: memory, redis or cassandra
type Store struct {
	Driver string `mapstructure:"driver"`
}

type DB struct {
	Host     string `mapstructure:"host"`
	Keyspace string `mapstructure:"keyspace"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type Redis struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWT struct {
	Secret string `mapstructure:"secret"`
	TTL    string `mapstructure:"ttl"`
}

type OTP struct {
	TTL         string `mapstructure:"ttl"`
	ResendAfter string `mapstructure:"resend_after"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type SMS struct {
	// Provider forces a provider (smsc, sns, simulated), empty means auto
	Provider string `mapstructure:"provider"`
	Login    string `mapstructure:"login"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
	URL      string `mapstructure:"url"`
	Region   string `mapstructure:"region"`
	KeyID    string `mapstructure:"key_id"`
	Secret   string `mapstructure:"secret"`
}

type Yukassa struct {
	ShopID        string `mapstructure:"shop_id"`
	SecretKey     string `mapstructure:"secret_key"`
	TaxSystemCode int    `mapstructure:"tax_system_code"`
	VatCode       int    `mapstructure:"vat_code"`
	URL           string `mapstructure:"url"`
	Currency      string `mapstructure:"currency"`
}

type Firebase struct {
	Path string `mapstructure:"path"`
	// Icon is the default notification icon sent with every push
	Icon string `mapstructure:"icon"`
}

type Notifications struct {
	Interval            string `mapstructure:"interval"`
	ReminderMinutes     int    `mapstructure:"reminder_minutes"`
	ExpiryDays          int    `mapstructure:"expiry_days"`
	LowBalanceThreshold int    `mapstructure:"low_balance_threshold"`
	PruneInterval       string `mapstructure:"prune_interval"`
	Retention           string `mapstructure:"retention"`
	SimulatedLatency    string `mapstructure:"simulated_latency"`
}

type RateLimit struct {
	SMSPerMinute int `mapstructure:"sms_per_minute"`
	Burst        int `mapstructure:"burst"`
}

// IsDevelopment reports whether debug-only routes may be served
func (c *KidsClubConfModel) IsDevelopment() bool {
	return c.Mode == "development"
}
