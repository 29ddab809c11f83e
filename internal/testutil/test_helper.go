package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}

	return &models.User{
		ID:           id,
		Name:         "Test User",
		Username:     username,
		PasswordHash: "hashed_password_123",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id uint, fromID, toID uint, body string) *models.Message {
	if id == 0 {
		id = 1
	}
	if fromID == 0 {
		fromID = 1
	}
	if toID == 0 {
		toID = 2
	}
	if body == "" {
		body = "Test message"
	}

	return &models.Message{
		ID:        id,
		FromID:    fromID,
		ToID:      toID,
		Body:      body,
		Delivered: false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("PASSWORD_MIN_LENGTH", "8")
	os.Setenv("MAX_MESSAGE_LENGTH", "4000")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
	os.Unsetenv("MAX_MESSAGE_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// GetRecordNotFoundError returns the gorm not-found sentinel for mocks
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
