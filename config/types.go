package config

type config struct {
	Server   server   `yaml:"server" mapstructure:"server"`
	Mysql    mysql    `yaml:"mysql" mapstructure:"mysql"`
	Redis    redis    `yaml:"redis" mapstructure:"redis"`
	RabbitMq rabbitmq `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Storage  storage  `yaml:"storage" mapstructure:"storage"`
	Jwt      jwt      `yaml:"jwt" mapstructure:"jwt"`
	Elastic  elastic  `yaml:"elastic" mapstructure:"elastic"`
	Jaeger   jaeger   `yaml:"jaeger" mapstructure:"jaeger"`
	Sentinel sentinel `yaml:"sentinel" mapstructure:"sentinel"`
	Upload   upload   `yaml:"upload" mapstructure:"upload"`
}

type server struct {
	Addr         string   `yaml:"addr"`
	LogLevel     string   `yaml:"log_level"`
	Pprof        string   `yaml:"pprof"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
	Params   string `yaml:"params"`
	MaxOpen  int    `yaml:"max_open_conns"`
	MaxIdle  int    `yaml:"max_idle_conns"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type storage struct {
	Driver     string `yaml:"driver"`
	PublicBase string `yaml:"public_base"`
	Minio      minio  `yaml:"minio"`
	S3         s3     `yaml:"s3"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type s3 struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
}

type jwt struct {
	AccessSecret  string `yaml:"access_secret"`
	AccessExpiry  string `yaml:"access_expiry"`
	RefreshSecret string `yaml:"refresh_secret"`
	RefreshExpiry string `yaml:"refresh_expiry"`
}

type elastic struct {
	Addr  string `yaml:"addr"`
	Index string `yaml:"index"`
}

type jaeger struct {
	Addr        string  `yaml:"addr"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

type sentinel struct {
	QPS float64 `yaml:"qps"`
}

type upload struct {
	MaxVideoSize int64  `yaml:"max_video_size"`
	MaxImageSize int64  `yaml:"max_image_size"`
	TempDir      string `yaml:"temp_dir"`
}
