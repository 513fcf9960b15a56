package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// 使用Viper的好处在于支持配置文件的热更新 同时viper对于大小写并不敏感 都是统一进行处理
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	setDefaults()
	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults and environment: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
			return
		}
	} else {
		logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())
	}

	load()

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
	logrus.Infof("Storage driver: %s, search: %t, rabbitmq: %t",
		ConfigInfo.Storage.Driver, ConfigInfo.Elastic.Addr != "", ConfigInfo.RabbitMq.Addr != "")
	if ConfigInfo.Jwt.AccessSecret == defaultAccessSecret {
		logrus.Warn("jwt.access_secret is the built-in default, set JWT_ACCESS_SECRET in production")
	}
}

const (
	defaultAccessSecret  = "videotube-access-secret"
	defaultRefreshSecret = "videotube-refresh-secret"
)

func setDefaults() {
	viper.SetDefault("server.addr", "0.0.0.0:8000")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("mysql.charset", "utf8mb4")
	viper.SetDefault("mysql.max_open_conns", 50)
	viper.SetDefault("mysql.max_idle_conns", 10)
	viper.SetDefault("storage.driver", "minio")
	viper.SetDefault("jwt.access_secret", defaultAccessSecret)
	viper.SetDefault("jwt.access_expiry", "24h")
	viper.SetDefault("jwt.refresh_secret", defaultRefreshSecret)
	viper.SetDefault("jwt.refresh_expiry", "240h")
	viper.SetDefault("elastic.index", "videos")
	viper.SetDefault("jaeger.service_name", "videotube")
	viper.SetDefault("jaeger.sample_rate", 1.0)
	viper.SetDefault("sentinel.qps", 200)
	viper.SetDefault("upload.max_video_size", 512<<20)
	viper.SetDefault("upload.max_image_size", 8<<20)
	viper.SetDefault("upload.temp_dir", os.TempDir())
}

// 手动从viper获取配置值，避免Unmarshal问题
func load() {
	ConfigInfo.Server.Addr = viper.GetString("server.addr")
	ConfigInfo.Server.LogLevel = viper.GetString("server.log_level")
	ConfigInfo.Server.Pprof = viper.GetString("server.pprof")
	ConfigInfo.Server.AllowOrigins = viper.GetStringSlice("server.allow_origins")

	ConfigInfo.Mysql.Addr = viper.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = viper.GetString("mysql.database")
	ConfigInfo.Mysql.Username = viper.GetString("mysql.username")
	ConfigInfo.Mysql.Password = viper.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = viper.GetString("mysql.charset")
	ConfigInfo.Mysql.Params = viper.GetString("mysql.params")
	ConfigInfo.Mysql.MaxOpen = viper.GetInt("mysql.max_open_conns")
	ConfigInfo.Mysql.MaxIdle = viper.GetInt("mysql.max_idle_conns")

	ConfigInfo.Redis.Addr = viper.GetString("redis.addr")
	ConfigInfo.Redis.Password = viper.GetString("redis.password")
	ConfigInfo.Redis.DB = viper.GetInt("redis.db")

	ConfigInfo.RabbitMq.Addr = viper.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = viper.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = viper.GetString("rabbitmq.password")

	ConfigInfo.Storage.Driver = viper.GetString("storage.driver")
	ConfigInfo.Storage.PublicBase = viper.GetString("storage.public_base")
	ConfigInfo.Storage.Minio.Endpoint = viper.GetString("storage.minio.endpoint")
	ConfigInfo.Storage.Minio.AccessKey = viper.GetString("storage.minio.access_key")
	ConfigInfo.Storage.Minio.SecretKey = viper.GetString("storage.minio.secret_key")
	ConfigInfo.Storage.Minio.UseSSL = viper.GetBool("storage.minio.use_ssl")
	ConfigInfo.Storage.S3.Region = viper.GetString("storage.s3.region")
	ConfigInfo.Storage.S3.Bucket = viper.GetString("storage.s3.bucket")
	ConfigInfo.Storage.S3.AccessKey = viper.GetString("storage.s3.access_key")
	ConfigInfo.Storage.S3.SecretKey = viper.GetString("storage.s3.secret_key")
	ConfigInfo.Storage.S3.Endpoint = viper.GetString("storage.s3.endpoint")

	ConfigInfo.Jwt.AccessSecret = viper.GetString("jwt.access_secret")
	ConfigInfo.Jwt.AccessExpiry = viper.GetString("jwt.access_expiry")
	ConfigInfo.Jwt.RefreshSecret = viper.GetString("jwt.refresh_secret")
	ConfigInfo.Jwt.RefreshExpiry = viper.GetString("jwt.refresh_expiry")

	ConfigInfo.Elastic.Addr = viper.GetString("elastic.addr")
	ConfigInfo.Elastic.Index = viper.GetString("elastic.index")

	ConfigInfo.Jaeger.Addr = viper.GetString("jaeger.addr")
	ConfigInfo.Jaeger.ServiceName = viper.GetString("jaeger.service_name")
	ConfigInfo.Jaeger.SampleRate = viper.GetFloat64("jaeger.sample_rate")

	ConfigInfo.Sentinel.QPS = viper.GetFloat64("sentinel.qps")

	ConfigInfo.Upload.MaxVideoSize = viper.GetInt64("upload.max_video_size")
	ConfigInfo.Upload.MaxImageSize = viper.GetInt64("upload.max_image_size")
	ConfigInfo.Upload.TempDir = viper.GetString("upload.temp_dir")
}

// Duration parses a duration setting, falling back to def when it is empty
// or malformed.
func Duration(raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// MysqlDSN builds the gorm mysql dsn from ConfigInfo.Mysql.
func MysqlDSN() string {
	m := ConfigInfo.Mysql
	dsn := m.Username + ":" + m.Password + "@tcp(" + m.Addr + ")/" + m.Database + "?charset=" + m.Charset + "&parseTime=True&loc=Local"
	if m.Params != "" {
		dsn += "&" + m.Params
	}
	return dsn
}

// RabbitMQURL builds the amqp url, or "" when no broker is configured.
func RabbitMQURL() string {
	r := ConfigInfo.RabbitMq
	if r.Addr == "" {
		return ""
	}
	return "amqp://" + r.Username + ":" + r.Password + "@" + r.Addr + "/"
}

// LogLevel maps server.log_level onto hlog.
func LogLevel() hlog.Level {
	switch strings.ToLower(ConfigInfo.Server.LogLevel) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}
