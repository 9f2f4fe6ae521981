package agentpay_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/agentpay/agentpay"
)

// MockUserStore implements agentpay.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*agentpay.User, error) {
	args := m.Called(ctx, email)
	var user *agentpay.User
	if v := args.Get(0); v != nil {
		user = v.(*agentpay.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id string) (*agentpay.User, error) {
	args := m.Called(ctx, id)
	var user *agentpay.User
	if v := args.Get(0); v != nil {
		user = v.(*agentpay.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) TrackAttemptedLogin(ctx context.Context, user *agentpay.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *agentpay.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentity implements agentpay.Identity
type MockIdentity struct {
	Identifier string
	Address    string
}

func (m MockIdentity) ID() string {
	return m.Identifier
}

func (m MockIdentity) Email() string {
	return m.Address
}

// testLogger records entries without asserting on them. Tests that
// care about log output can inspect Entries.
type testLogger struct {
	mu      sync.Mutex
	Entries []string
}

func (l *testLogger) Debug(msg string, args ...any) { l.record(msg) }
func (l *testLogger) Info(msg string, args ...any)  { l.record(msg) }
func (l *testLogger) Warn(msg string, args ...any)  { l.record(msg) }
func (l *testLogger) Error(msg string, args ...any) { l.record(msg) }

func (l *testLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, msg)
}
