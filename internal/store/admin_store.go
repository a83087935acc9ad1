package store

import (
	"context"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AdminStore struct {
	db *sqlx.DB
}

const (
	getAdminQuery           = "SELECT * FROM admins WHERE id = ?"
	getAdminByUsernameQuery = "SELECT * FROM admins WHERE username = ?"
	getAdminByProviderQuery = `
		SELECT * FROM admins
		WHERE provider = ?
		AND provider_id = ?
	`
	listAdminsQuery  = "SELECT * FROM admins ORDER BY created_at ASC, username ASC"
	createAdminQuery = `
		INSERT INTO admins (id, username, email, role, password_hash, provider, provider_id, avatar_url) VALUES
		(:id, :username, :email, :role, :password_hash, :provider, :provider_id, :avatar_url)
	`
	updateAdminProfileQuery = `
		UPDATE admins SET
		username = :username,
		email = :email,
		avatar_url = :avatar_url,
		role = :role
		WHERE id = :id
	`
	updatePasswordQuery = "UPDATE admins SET password_hash = ? WHERE id = ?"
	touchLastLoginQuery = "UPDATE admins SET last_login_at = CURRENT_TIMESTAMP WHERE id = ?"
)

func NewAdminStore(db *sqlx.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) GetAdmin(ctx context.Context, id uuid.UUID) (*admin.Admin, error) {
	var a admin.Admin
	if err := s.db.GetContext(ctx, &a, getAdminQuery, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminStore) GetAdminByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	var a admin.Admin
	if err := s.db.GetContext(ctx, &a, getAdminByUsernameQuery, username); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminStore) GetAdminByProvider(ctx context.Context, provider string, providerID string) (*admin.Admin, error) {
	var a admin.Admin
	if err := s.db.GetContext(ctx, &a, getAdminByProviderQuery, provider, providerID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdminStore) ListAdmins(ctx context.Context) ([]admin.Admin, error) {
	var admins []admin.Admin
	err := s.db.SelectContext(ctx, &admins, listAdminsQuery)
	return admins, err
}

func (s *AdminStore) CreateAdmin(ctx context.Context, a *admin.Admin) error {
	_, err := s.db.NamedExecContext(ctx, createAdminQuery, a)
	return err
}

func (s *AdminStore) UpdateProfile(ctx context.Context, a *admin.Admin) error {
	_, err := s.db.NamedExecContext(ctx, updateAdminProfileQuery, a)
	return err
}

func (s *AdminStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.db.ExecContext(ctx, updatePasswordQuery, hash, id)
	return err
}

func (s *AdminStore) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, touchLastLoginQuery, id)
	return err
}
