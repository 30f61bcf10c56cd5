package db

import (
	"context"

	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func init() {
	var err error
	db, err = gorm.Open(postgres.Open(env.DB_CONN), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	db.AutoMigrate(&model.User{})
	db.AutoMigrate(&model.Relationship{})
	db.AutoMigrate(&model.Micropost{})
}

func GetDB(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}
