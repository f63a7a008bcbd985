package services

import (
	"fmt"
	"strings"
	"testing"

	"echoboard/internal/models"
	"echoboard/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 每个测试用独立的内存库，避免互相污染
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Account{},
		&models.Post{},
		&models.Comment{},
		&models.Notification{},
	))

	// 详情页缓存是进程级单例，测试之间清空
	utils.GetCache().Purge()
	return gdb
}

// seedAccount 直接入库一个账号，绕过注册流程
func seedAccount(t *testing.T, gdb *gorm.DB, loginID string, verified bool) *models.Account {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	account := &models.Account{
		LoginID:                    loginID,
		Nickname:                   loginID + "_nick",
		Email:                      loginID + "@example.com",
		Password:                   hash,
		EmailVerified:              verified,
		CommentNotificationEnabled: true,
	}
	require.NoError(t, gdb.Create(account).Error)
	return account
}
