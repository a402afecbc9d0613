package migration

import "gorm.io/gorm"

var models []interface{}

// RegisterAutoMigrateModels 注册需要自动迁移的模型，模型包在init()中调用
func RegisterAutoMigrateModels(m ...interface{}) {
	models = append(models, m...)
}

// AutoMigrate 执行所有已注册模型的迁移
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models...)
}
