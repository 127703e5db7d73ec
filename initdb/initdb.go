package initdb

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
	"gorm.io/gorm"

	"github.com/signet-labs/roomsig/model"
)

var log = logging.Logger("initdb")

func InitDatabase(db *gorm.DB) error {

	if checkExist(db) {
		return xerrors.New("database has been initialized")
	}

	if err := createTables(db); err != nil {
		return err
	}

	return nil
}

func checkExist(db *gorm.DB) bool {
	return db.Migrator().HasTable(&model.MultisigAccount{})
}

func createTables(db *gorm.DB) error {

	startTime := time.Now()
	defer func() {
		log.Infow("createTables", "duration", time.Since(startTime).String())
	}()

	err := db.Debug().AutoMigrate(
		&model.MultisigAccount{},
		&model.MultisigTransaction{},
		&model.MultisigEvent{},
	)

	return err
}
