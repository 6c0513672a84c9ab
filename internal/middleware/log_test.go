package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newAuditedRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	user := models.User{Username: "audited", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &user)
		c.Next()
	})
	r.Use(AuditMiddleware(db))
	r.POST("/api/profile/password", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/categories", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(t *testing.T, r *gin.Engine, path, body string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s: got status %d", path, w.Code)
	}
}

func lastAuditRow(t *testing.T, db *gorm.DB) models.AuditLog {
	t.Helper()

	var row models.AuditLog
	if err := db.Order("id DESC").First(&row).Error; err != nil {
		t.Fatalf("load audit row: %v", err)
	}
	return row
}

func TestAuditMiddlewareRedactsPasswordChangeBody(t *testing.T) {
	db := newTestDB(t)
	r := newAuditedRouter(t, db)

	post(t, r, "/api/profile/password",
		`{"old_password":"OldPassw0rd","new_password":"NewPassw0rd"}`)

	row := lastAuditRow(t, db)
	if row.Path != "/api/profile/password" {
		t.Errorf("path = %q, want /api/profile/password", row.Path)
	}
	for _, secret := range []string{"OldPassw0rd", "NewPassw0rd", "old_password", "new_password"} {
		if strings.Contains(row.Action, secret) {
			t.Errorf("audit action leaks %q: %q", secret, row.Action)
		}
	}
	if !strings.Contains(row.Action, "[redacted]") {
		t.Errorf("action = %q, want redaction marker", row.Action)
	}
}

func TestAuditMiddlewareKeepsBodyExcerptElsewhere(t *testing.T) {
	db := newTestDB(t)
	r := newAuditedRouter(t, db)

	post(t, r, "/api/categories", `{"name":"Food","type":"expense"}`)

	row := lastAuditRow(t, db)
	if !strings.Contains(row.Action, `"name":"Food"`) {
		t.Errorf("action = %q, want body excerpt for non-sensitive path", row.Action)
	}
}
