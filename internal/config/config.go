package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"排班主管"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD,required"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN,required"`
		SMTP       struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
	Fatigue struct {
		CommuteMinutes           float64 `env:"COMMUTE_MINUTES" envDefault:"60"`
		MaxSleepMinutes          float64 `env:"MAX_SLEEP_MINUTES" envDefault:"480"`
		MinSleepMinutes          float64 `env:"MIN_SLEEP_MINUTES" envDefault:"60"`
		ForbiddenZoneStartHour   float64 `env:"FORBIDDEN_ZONE_START_HOUR" envDefault:"12"`
		ForbiddenZoneEndHour     float64 `env:"FORBIDDEN_ZONE_END_HOUR" envDefault:"20"`
		DefaultBedtimeHour       float64 `env:"DEFAULT_BEDTIME_HOUR" envDefault:"23"`
		InitialReservoirFraction float64 `env:"INITIAL_RESERVOIR_FRACTION" envDefault:"0.9"`
		StepMinutes              float64 `env:"STEP_MINUTES" envDefault:"1"`
		InertiaWindowMinutes     float64 `env:"INERTIA_WINDOW_MINUTES" envDefault:"120"`
		RiskThreshold            float64 `env:"RISK_THRESHOLD" envDefault:"70"`
		AlertRiskLevel           string  `env:"ALERT_RISK_LEVEL" envDefault:"high"`
		CacheExpiration          int     `env:"CACHE_EXPIRATION" envDefault:"3600"` // 1 小时
		BatchWorkers             int     `env:"BATCH_WORKERS" envDefault:"4"`
		MaxBatchSize             int     `env:"MAX_BATCH_SIZE" envDefault:"20"`
	} `envPrefix:"FATIGUE_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch domain.RiskLevel(cfg.Fatigue.AlertRiskLevel) {
	case domain.RiskLow, domain.RiskModerate, domain.RiskHigh, domain.RiskSevere:
	default:
		return nil, errors.New("FATIGUE_ALERT_RISK_LEVEL 必须是 low、moderate、high 或 severe")
	}

	return cfg, nil
}

// FatigueParameters 将环境变量中的模型参数转换为引擎参数
func (cfg *Config) FatigueParameters() fatigue.Parameters {
	return fatigue.Parameters{
		CommuteMinutes:           cfg.Fatigue.CommuteMinutes,
		MaxSleepMinutes:          cfg.Fatigue.MaxSleepMinutes,
		MinSleepMinutes:          cfg.Fatigue.MinSleepMinutes,
		ForbiddenZoneStartHour:   cfg.Fatigue.ForbiddenZoneStartHour,
		ForbiddenZoneEndHour:     cfg.Fatigue.ForbiddenZoneEndHour,
		DefaultBedtimeHour:       cfg.Fatigue.DefaultBedtimeHour,
		InitialReservoirFraction: cfg.Fatigue.InitialReservoirFraction,
		StepMinutes:              cfg.Fatigue.StepMinutes,
		InertiaWindowMinutes:     cfg.Fatigue.InertiaWindowMinutes,
		RiskThreshold:            cfg.Fatigue.RiskThreshold,
	}
}

// AlertRiskLevel 触发疲劳预警邮件的最低风险等级
func (cfg *Config) AlertRiskLevel() domain.RiskLevel {
	return domain.RiskLevel(cfg.Fatigue.AlertRiskLevel)
}
