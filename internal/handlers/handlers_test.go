package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"echoboard/internal/handlers"
	"echoboard/internal/middleware"
	"echoboard/internal/models"
	"echoboard/internal/router"
	"echoboard/internal/services"
	"echoboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServer 起一个完整的 HTTP 服务：内存库 + cookie 会话 + 全部路由
func setupServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Account{},
		&models.Post{},
		&models.Comment{},
		&models.Notification{},
	))
	utils.GetCache().Purge()

	mail := &services.MailService{} // Enabled=false，不真正发信
	accounts := services.NewAccountService(gdb, mail)
	notifications := services.NewNotificationService(gdb)
	posts := services.NewPostService(gdb)
	comments := services.NewCommentService(gdb, notifications)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("echoboard_session", store))
	router.RegisterRoutes(r, gdb,
		handlers.NewAuthHandler(accounts),
		handlers.NewUserHandler(accounts),
		handlers.NewPostHandler(posts),
		handlers.NewCommentHandler(comments),
		handlers.NewNotificationHandler(notifications),
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, gdb
}

// client 持有自己的 cookie jar，模拟一个独立的浏览器会话
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func signUp(t *testing.T, c *http.Client, base, loginID string) {
	t.Helper()
	resp, _ := doJSON(t, c, http.MethodPost, base+"/sign-up", gin.H{
		"login_id":         loginID,
		"password":         "password123",
		"password_confirm": "password123",
		"nickname":         loginID + "_nick",
		"email":            loginID + "@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// verifyEmail 从库里取出验证 token，走邮件链接完成验证
func verifyEmail(t *testing.T, c *http.Client, base string, gdb *gorm.DB, loginID string) {
	t.Helper()
	var account models.Account
	require.NoError(t, gdb.Where("login_id = ?", loginID).First(&account).Error)
	resp, _ := doJSON(t, c, http.MethodGet,
		fmt.Sprintf("%s/check-email-token?token=%s&email=%s", base, account.EmailCheckToken, account.Email), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// 注册 → 邮箱验证 → 发私密文章 → 他人被拒、作者可见、他人删除被拒
func TestPrivatePostFlow(t *testing.T) {
	srv, gdb := setupServer(t)

	aiden := newClient(t)
	signUp(t, aiden, srv.URL, "aiden")
	verifyEmail(t, aiden, srv.URL, gdb, "aiden")

	resp, payload := doJSON(t, aiden, http.MethodPost, srv.URL+"/post", gin.H{
		"title":   "my diary",
		"content": "secret",
		"secret":  true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := int(payload["post"].(map[string]any)["id"].(float64))
	postURL := fmt.Sprintf("%s/post/%d", srv.URL, postID)

	// 未登录访客
	anonymous := newClient(t)
	resp, _ = doJSON(t, anonymous, http.MethodGet, postURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// 其他已登录用户
	bob := newClient(t)
	signUp(t, bob, srv.URL, "bob")
	verifyEmail(t, bob, srv.URL, gdb, "bob")
	resp, _ = doJSON(t, bob, http.MethodGet, postURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, bob, http.MethodDelete, postURL, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// 文章还在，作者自己能看
	resp, payload = doJSON(t, aiden, http.MethodGet, postURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "my diary", payload["post"].(map[string]any)["title"])

	// 列表里访客看不到私密文章
	resp, payload = doJSON(t, anonymous, http.MethodGet, srv.URL+"/post", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["posts"])
}

// 未验证邮箱不能发文，验证后才放行
func TestWriteRequiresVerifiedEmail(t *testing.T) {
	srv, gdb := setupServer(t)

	c := newClient(t)
	signUp(t, c, srv.URL, "rookie")

	resp, _ := doJSON(t, c, http.MethodPost, srv.URL+"/post", gin.H{"title": "hello"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	verifyEmail(t, c, srv.URL, gdb, "rookie")
	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/post", gin.H{"title": "hello"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuthRequiredRoutes(t *testing.T) {
	srv, _ := setupServer(t)

	anonymous := newClient(t)
	resp, _ := doJSON(t, anonymous, http.MethodPost, srv.URL+"/post", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, anonymous, http.MethodGet, srv.URL+"/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	srv, _ := setupServer(t)

	signUp(t, newClient(t), srv.URL, "aiden")

	resp, payload := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/sign-up", gin.H{
		"login_id":         "someone_else",
		"password":         "password123",
		"password_confirm": "password123",
		"nickname":         "other_nick",
		"email":            "aiden@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email", payload["field"])
}

func TestLoginLogout(t *testing.T) {
	srv, gdb := setupServer(t)

	signUp(t, newClient(t), srv.URL, "aiden")
	verifyEmail(t, newClient(t), srv.URL, gdb, "aiden")

	c := newClient(t)
	resp, _ := doJSON(t, c, http.MethodPost, srv.URL+"/login", gin.H{
		"login_id": "aiden",
		"password": "wrong_password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/login", gin.H{
		"login_id": "aiden",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/post", gin.H{"title": "after login"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, c, http.MethodGet, srv.URL+"/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, c, http.MethodPost, srv.URL+"/post", gin.H{"title": "after logout"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// 已登录响应都带未读角标头，拉取未读后归零
func TestUnreadCountHeader(t *testing.T) {
	srv, gdb := setupServer(t)

	aiden := newClient(t)
	signUp(t, aiden, srv.URL, "aiden")
	verifyEmail(t, aiden, srv.URL, gdb, "aiden")

	var account models.Account
	require.NoError(t, gdb.Where("login_id = ?", "aiden").First(&account).Error)
	require.NoError(t, gdb.Create(&models.Notification{AccountID: account.ID, Message: "新评论", Link: "/post/1"}).Error)

	resp, _ := doJSON(t, aiden, http.MethodGet, srv.URL+"/post", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(middleware.UnreadCountHeader))

	// 访客没有角标头
	resp, _ = doJSON(t, newClient(t), http.MethodGet, srv.URL+"/post", nil)
	assert.Empty(t, resp.Header.Get(middleware.UnreadCountHeader))

	// 看过未读列表之后归零
	resp, _ = doJSON(t, aiden, http.MethodGet, srv.URL+"/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, aiden, http.MethodGet, srv.URL+"/post", nil)
	assert.Equal(t, "0", resp.Header.Get(middleware.UnreadCountHeader))
}

// 评论触发通知，文章作者拉取一次即已读
func TestCommentNotificationFlow(t *testing.T) {
	srv, gdb := setupServer(t)

	aiden := newClient(t)
	signUp(t, aiden, srv.URL, "aiden")
	verifyEmail(t, aiden, srv.URL, gdb, "aiden")

	resp, payload := doJSON(t, aiden, http.MethodPost, srv.URL+"/post", gin.H{"title": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := int(payload["post"].(map[string]any)["id"].(float64))

	bob := newClient(t)
	signUp(t, bob, srv.URL, "bob")
	verifyEmail(t, bob, srv.URL, gdb, "bob")
	resp, _ = doJSON(t, bob, http.MethodPost, srv.URL+"/comment", gin.H{
		"post_id": postID,
		"content": "nice post",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// 通知由后台 worker 异步写入
	assert.Eventually(t, func() bool {
		var count int64
		gdb.Model(&models.Notification{}).Count(&count)
		return count == 1
	}, 3*time.Second, 10*time.Millisecond)

	resp, payload = doJSON(t, aiden, http.MethodGet, srv.URL+"/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notifications := payload["notifications"].([]any)
	require.Len(t, notifications, 1)

	// 第二次拉取未读为空
	resp, payload = doJSON(t, aiden, http.MethodGet, srv.URL+"/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["notifications"])
}
