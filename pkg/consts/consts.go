package consts

const (
	AppName = "kidsclub"
)

// gin context keys
const (
	UserPhone = "USER_PHONE"
	UserToken = "USER_TOKEN"
	AdminUser = "ADMIN_USER"
)

// store drivers
const (
	MemoryStore    = "memory"
	RedisStore     = "redis"
	CassandraStore = "cassandra"
)

// provider names
const (
	SMSC          = "smsc"
	SNS           = "sns"
	Simulated     = "simulated"
	Firebase      = "firebase"
	Yookassa      = "yookassa"
	DemoGateway   = "demo"
	DemoPaymentID = "demo_"
)

// store key prefixes
const (
	OTPKey          = "otp:"
	AuthKey         = "auth:"
	ProfileKey      = "profile:"
	PreferencesKey  = "prefs:"
	FcmKey          = "fcm:"
	SentLogKey      = "sentlog:"
	SubscribersKey  = "notify:subscribers"
	PlanKey         = "plan:"
	PlansIndexKey   = "plans:index"
	BannerKey       = "banner:"
	BannersIndexKey = "banners:index"
)

const (
	// SimulatedOTPCode is handed out when no SMS provider is configured
	SimulatedOTPCode = "1234"
	OTPDigits        = 4
)

const (
	JSONContentType = "application/json"
)
