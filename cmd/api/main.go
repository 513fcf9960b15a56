// Command api serves the VideoTube HTTP API.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"
	"github.com/sirupsen/logrus"

	"VideoTube.com/cmd/api/handlers/common"
	interactiondb "VideoTube.com/cmd/interaction/dal/db"
	interactionservice "VideoTube.com/cmd/interaction/service"
	playlistdb "VideoTube.com/cmd/playlist/dal/db"
	relationdb "VideoTube.com/cmd/relation/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	videodb "VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/cmd/video/infras/search"
	"VideoTube.com/cmd/model"
	"VideoTube.com/config"
	"VideoTube.com/config/jaeger"
	"VideoTube.com/config/pprof"
	"VideoTube.com/pkg/cache"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/middleware"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/response"
	"VideoTube.com/pkg/security"
)

// writeLimit caps write requests per user and route.
var writeLimit = security.RateLimitConfig{WindowSize: time.Minute, MaxRequests: 60}

type stack struct {
	deps    *deps.Deps
	limiter security.Limiter
	closers []func() error
}

func (a *stack) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			hlog.Errorf("shutdown: %v", err)
		}
	}
}

func Init(ctx context.Context) *stack {
	config.Init()
	hlog.SetLevel(config.LogLevel())
	cfg := config.ConfigInfo
	a := &stack{}

	_, closer := jaeger.InitJaeger(cfg.Jaeger.ServiceName, cfg.Jaeger.Addr, cfg.Jaeger.SampleRate)
	a.closers = append(a.closers, closer.Close)

	gdb, err := database.Open(database.Options{
		DSN:          config.MysqlDSN(),
		MaxOpenConns: cfg.Mysql.MaxOpen,
		MaxIdleConns: cfg.Mysql.MaxIdle,
		Debug:        cfg.Server.LogLevel == "debug",
	})
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	userdb.Init(gdb)
	videodb.Init(gdb)
	interactiondb.Init(gdb)
	relationdb.Init(gdb)
	playlistdb.Init(gdb)

	src, err := database.NewSource(gdb, model.All()...)
	if err != nil {
		logrus.Fatalf("build read source: %v", err)
	}
	if _, err = profiles.New(); err != nil {
		logrus.Fatalf("invalid read profile: %v", err)
	}

	d := &deps.Deps{
		Composer: compose.New(src),
		TempDir:  cfg.Upload.TempDir,
	}

	var revoker cache.Revoker
	if client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		hlog.Warnf("redis unavailable, using process-local locks and revocation: %v", err)
		revoker = cache.NewMemoryRevoker()
		d.Locker = cache.NewLocalLocker()
		a.limiter = security.NewLocalLimiter(writeLimit)
	} else {
		a.closers = append(a.closers, client.Close)
		revoker = cache.NewRedisRevoker(client)
		d.Locker = cache.NewRedisLocker(client, 5*time.Second)
		a.limiter = security.NewSlidingWindowLimiter(client, writeLimit)
	}

	if d.Storage, err = oss.New(ctx); err != nil {
		logrus.Fatalf("init object storage: %v", err)
	}

	d.Tokens, err = jwt.New(jwt.Options{
		AccessSecret:  cfg.Jwt.AccessSecret,
		AccessTTL:     config.Duration(cfg.Jwt.AccessExpiry, 24*time.Hour),
		RefreshSecret: cfg.Jwt.RefreshSecret,
		RefreshTTL:    config.Duration(cfg.Jwt.RefreshExpiry, 240*time.Hour),
	}, revoker)
	if err != nil {
		logrus.Fatalf("init tokens: %v", err)
	}

	if url := config.RabbitMQURL(); url != "" {
		producer, err := mq.NewProducer(url)
		if err != nil {
			logrus.Fatalf("connect rabbitmq: %v", err)
		}
		a.closers = append(a.closers, producer.Close)
		d.Publisher = producer
	} else {
		hlog.Info("rabbitmq not configured, running the delete cascade inline")
		d.Publisher = mq.NewInlineProducer(interactionservice.CascadeHandler{})
	}

	if cfg.Elastic.Addr != "" {
		es, err := search.NewElastic(ctx, cfg.Elastic.Addr, cfg.Elastic.Index)
		if err != nil {
			hlog.Warnf("search disabled: %v", err)
		} else {
			d.Search = es
		}
	}

	common.Deps = d
	common.Limits.Video = cfg.Upload.MaxVideoSize
	common.Limits.Image = cfg.Upload.MaxImageSize
	a.deps = d
	hlog.Info("Dependencies initialized successfully")
	return a
}

func main() {
	ctx := context.Background()
	a := Init(ctx)
	defer a.close()
	pprof.Load(config.ConfigInfo.Server.Pprof)

	h := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(common.Limits.Video)+(1<<20)),
	)

	h.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigInfo.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			response.SendResponse(c, errno.ServiceErr.WithMessage(fmt.Sprint(err)), nil)
		})))
	h.Use(middleware.Sentinel())

	// 注册路由
	register(h, a.deps.Tokens, a.limiter)

	resources := make([]string, 0, len(h.Routes()))
	for _, r := range h.Routes() {
		resources = append(resources, middleware.Resource(r.Method, r.Path))
	}
	if err := middleware.InitSentinel(config.ConfigInfo.Sentinel.QPS, resources...); err != nil {
		logrus.Fatalf("init sentinel: %v", err)
	}

	h.Spin()
}
