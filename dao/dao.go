package dao

import (
	"context"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("dao")

type Dao struct {
	ctx context.Context
	db  *gorm.DB
	rds *redis.Client
}

func NewDao(ctx context.Context, db *gorm.DB, rds *redis.Client) *Dao {
	return &Dao{
		ctx: ctx,
		db:  db,
		rds: rds,
	}
}
