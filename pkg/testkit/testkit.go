// Package testkit holds helpers shared by the package tests: an isolated
// in-memory database, a recording mailer and form request builders.
package testkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeuxouverts/shop/pkg/database"
	"github.com/yeuxouverts/shop/pkg/mail"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database and migrates models into it.
// Each call gets its own database, so tests can run in parallel.
func NewDB(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// ─── Mailer ───────────────────────────────────────────────────────────────────

// Mailer is a testify mock for mail.Mailer that also records every message.
//
//	m := testkit.NewMailer()
//	m.On("Send", mock.Anything, mock.Anything).Return(nil)
type Mailer struct {
	mock.Mock

	mu   sync.Mutex
	sent []*mail.Message
}

func NewMailer() *Mailer { return &Mailer{} }

func (m *Mailer) Send(ctx context.Context, msg *mail.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Sent returns the messages passed to Send so far.
func (m *Mailer) Sent() []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mail.Message(nil), m.sent...)
}

// ─── Requests ─────────────────────────────────────────────────────────────────

// PostForm builds a url-encoded POST request.
func PostForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
