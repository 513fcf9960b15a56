// Command consumer runs the content-deleted cascade off RabbitMQ.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/sirupsen/logrus"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/interaction/service"
	playlistdb "VideoTube.com/cmd/playlist/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/config"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/mq"
)

func main() {
	config.Init()
	hlog.SetLevel(config.LogLevel())

	url := config.RabbitMQURL()
	if url == "" {
		logrus.Fatal("rabbitmq.addr is not set, the api runs the cascade inline")
	}
	gdb, err := database.Open(database.Options{
		DSN:          config.MysqlDSN(),
		MaxOpenConns: config.ConfigInfo.Mysql.MaxOpen,
		MaxIdleConns: config.ConfigInfo.Mysql.MaxIdle,
	})
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	db.Init(gdb)
	playlistdb.Init(gdb)
	userdb.Init(gdb)
	hlog.Info("Dependencies initialized successfully")

	consumer, err := mq.NewConsumer(url)
	if err != nil {
		logrus.Fatalf("Failed to create consumer: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hlog.Info("Content deleted consumer started, waiting for messages...")
	if err = consumer.ConsumeContentDeleted(ctx, service.CascadeHandler{}); err != nil {
		hlog.Errorf("consumer stopped: %v", err)
		return
	}
	hlog.Info("Event consumer stopped")
}
