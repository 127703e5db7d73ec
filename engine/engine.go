package engine

import (
	"context"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	logging "github.com/ipfs/go-log/v2"

	"github.com/signet-labs/roomsig/dao"
	"github.com/signet-labs/roomsig/transport"
)

var log = logging.Logger("engine")

type Engine struct {
	ctx      context.Context
	dao      *dao.Dao
	consumer *Consumer
}

func New(ctx context.Context, db *gorm.DB, rds *redis.Client, gw transport.RoomGateway) *Engine {
	d := dao.NewDao(ctx, db, rds)

	return &Engine{
		ctx:      ctx,
		dao:      d,
		consumer: NewConsumer(ctx, d, gw),
	}
}

func (e *Engine) Start() error {
	if err := e.dao.WarmAccountCache(); err != nil {
		log.Warnf("account cache warmup failed:%v", err)
	}

	return e.consumer.Start()
}

func (e *Engine) Stop() {
	e.consumer.Stop()
}
