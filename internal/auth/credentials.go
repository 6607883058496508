package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/naoki/shopadmin/internal/model"
)

// CredentialStore は認証情報の照合インターフェース。
// テストではインメモリ実装を、本番では永続ストアを注入できる。
type CredentialStore interface {
	// Verify はユーザーIDとパスワードの組を照合する。
	// 一致した場合はユーザーを返し、ユーザーが存在しない場合と
	// パスワード不一致の場合はいずれもnilを返す（どちらが誤りかは開示しない）。
	Verify(ctx context.Context, userID, password string) (*model.User, error)
}

// credential はインメモリストアの1エントリ。パスワードはbcryptハッシュで保持する。
type credential struct {
	user         model.User
	passwordHash []byte
}

// InMemoryCredentialStore はメモリ上に認証情報を保持するCredentialStore実装。
// 登録後は読み取り専用のためロックなしで並行アクセスできるが、
// Registerとの併用に備えてRWMutexで保護する。
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials map[string]credential
}

// NewInMemoryCredentialStore は空のInMemoryCredentialStoreを生成する。
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		credentials: make(map[string]credential),
	}
}

// Register はユーザーの認証情報を登録する。
// パスワードはbcryptでハッシュ化して保持し、平文は保存しない。
func (s *InMemoryCredentialStore) Register(userID, password string, role model.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[userID] = credential{
		user:         model.User{ID: userID, Role: role},
		passwordHash: hash,
	}
	return nil
}

// Verify はユーザーIDとパスワードの組を照合する。
func (s *InMemoryCredentialStore) Verify(_ context.Context, userID, password string) (*model.User, error) {
	s.mu.RLock()
	cred, ok := s.credentials[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return nil, nil
	}

	user := cred.user
	return &user, nil
}

// compile-time interface check
var _ CredentialStore = (*InMemoryCredentialStore)(nil)
