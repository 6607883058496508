package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naoki/shopadmin/internal/model"
	"github.com/naoki/shopadmin/internal/repository"
)

// --- モック定義 ---

type mockCredentialStore struct {
	verifyFn func(ctx context.Context, userID, password string) (*model.User, error)
}

func (m *mockCredentialStore) Verify(ctx context.Context, userID, password string) (*model.User, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, userID, password)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

// --- compile-time interface checks ---
var _ CredentialStore = (*mockCredentialStore)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

// --- テスト ---

func TestLogin_ValidCredentials_CreatesSession(t *testing.T) {
	ctx := context.Background()

	var createdSession *model.Session
	credentials := &mockCredentialStore{
		verifyFn: func(ctx context.Context, userID, password string) (*model.User, error) {
			if userID == "admin" && password == "admin_password" {
				return &model.User{ID: "admin", Role: model.RoleAdmin}, nil
			}
			return nil, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(credentials, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	session, err := svc.Login(ctx, "admin", "admin_password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if session.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if session.UserID != "admin" {
		t.Errorf("session userID = %q, want %q", session.UserID, "admin")
	}
	if session.Role != model.RoleAdmin {
		t.Errorf("session role = %q, want %q", session.Role, model.RoleAdmin)
	}
	if session.ExpiresAt.Before(time.Now()) {
		t.Error("session should not be expired")
	}

	if createdSession == nil {
		t.Fatal("expected session to be persisted")
	}
	if createdSession.ID != session.ID {
		t.Errorf("persisted session ID = %q, want %q", createdSession.ID, session.ID)
	}
}

func TestLogin_WrongPassword_ReturnsErrInvalidCredentials(t *testing.T) {
	ctx := context.Background()

	createCalled := false
	credentials := &mockCredentialStore{
		verifyFn: func(ctx context.Context, userID, password string) (*model.User, error) {
			return nil, nil // 不一致
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createCalled = true
			return nil
		},
	}

	svc := NewService(credentials, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	session, err := svc.Login(ctx, "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if session != nil {
		t.Error("expected nil session on login failure")
	}
	// 失敗時にセッションが作成されないこと
	if createCalled {
		t.Error("session should not be created on login failure")
	}
}

func TestLogin_UnknownUser_ReturnsErrInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockCredentialStore{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})

	_, err := svc.Login(ctx, "nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UniqueSessionIDs(t *testing.T) {
	ctx := context.Background()
	credentials := &mockCredentialStore{
		verifyFn: func(ctx context.Context, userID, password string) (*model.User, error) {
			return &model.User{ID: userID, Role: model.RoleAdmin}, nil
		},
	}
	svc := NewService(credentials, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		session, err := svc.Login(ctx, "admin", "admin_password")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("duplicate session ID: %s", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	ctx := context.Background()

	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(&mockCredentialStore{}, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	if err := svc.Logout(ctx, "session-123"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deletedID != "session-123" {
		t.Errorf("deleted session ID = %q, want %q", deletedID, "session-123")
	}
}

func TestLogout_EmptySessionID_Succeeds(t *testing.T) {
	ctx := context.Background()

	deleteCalled := false
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(&mockCredentialStore{}, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	// セッションなしのログアウトも成功すること（冪等）
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout() error = %v, want nil", err)
	}
	if deleteCalled {
		t.Error("DeleteByID should not be called for empty session ID")
	}
}

func TestLogout_AlreadyDeleted_Succeeds(t *testing.T) {
	ctx := context.Background()

	// リポジトリは存在しないIDの削除も成功扱い
	svc := NewService(&mockCredentialStore{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})

	if err := svc.Logout(ctx, "already-gone"); err != nil {
		t.Errorf("Logout() error = %v, want nil", err)
	}
}

func TestCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:        id,
				UserID:    "admin",
				Role:      model.RoleAdmin,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	svc := NewService(&mockCredentialStore{}, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	user, err := svc.CurrentUser(ctx, "session-123")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user == nil {
		t.Fatal("expected non-nil user")
	}
	if user.ID != "admin" {
		t.Errorf("user ID = %q, want %q", user.ID, "admin")
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("user role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestCurrentUser_MissingSession_ReturnsNil(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockCredentialStore{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})

	user, err := svc.CurrentUser(ctx, "expired-or-missing")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestCurrentUser_EmptySessionID_ReturnsNil(t *testing.T) {
	ctx := context.Background()

	findCalled := false
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			findCalled = true
			return nil, nil
		},
	}
	svc := NewService(&mockCredentialStore{}, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	user, err := svc.CurrentUser(ctx, "")
	if err != nil || user != nil {
		t.Errorf("CurrentUser() = (%v, %v), want (nil, nil)", user, err)
	}
	if findCalled {
		t.Error("FindByID should not be called for empty session ID")
	}
}
