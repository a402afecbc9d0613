package database

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var db *gorm.DB

// Open 连接数据库并保存全局句柄
func Open(dsn string) error {
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	db = conn
	return nil
}

// SetDatabase 注入已有连接，测试时使用
func SetDatabase(conn *gorm.DB) {
	db = conn
}

func Database() *gorm.DB {
	return db
}
