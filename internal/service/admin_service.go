package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/store"
	"github.com/AdamBeresnev/dam-aji/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Nama pengguna atau kata laluan tidak sah")

type AdminService struct {
	store           *store.AdminStore
	mainAdminEmails []string
}

func NewAdminService(store *store.AdminStore, mainAdminEmails []string) *AdminService {
	return &AdminService{store: store, mainAdminEmails: mainAdminEmails}
}

// SeedAccount is a password account created at startup.
type SeedAccount struct {
	Username string
	Password string
	Role     admin.Role
}

// EnsureSeedAccounts creates the password accounts, or rotates the stored hash
// when the configured password changed. Accounts with an empty password are
// skipped.
func (s *AdminService) EnsureSeedAccounts(ctx context.Context, accounts ...SeedAccount) error {
	for _, acc := range accounts {
		if acc.Password == "" {
			continue
		}

		existing, err := s.store.GetAdminByUsername(ctx, acc.Username)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up %s: %w", acc.Username, err)
		}

		if existing != nil {
			hash := utils.OrZero(existing.PasswordHash)
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(acc.Password)) == nil {
				continue
			}
			newHash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			if err := s.store.UpdatePassword(ctx, existing.ID, string(newHash)); err != nil {
				return fmt.Errorf("failed to update password for %s: %w", acc.Username, err)
			}
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		seeded := &admin.Admin{
			ID:           uuid.New(),
			Username:     acc.Username,
			Role:         acc.Role,
			PasswordHash: utils.Ptr(string(hash)),
		}
		if err := s.store.CreateAdmin(ctx, seeded); err != nil {
			return fmt.Errorf("failed to create %s: %w", acc.Username, err)
		}
	}
	return nil
}

func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*admin.Admin, error) {
	a, err := s.store.GetAdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if a.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.TouchLastLogin(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AdminService) GetAdmin(ctx context.Context, id uuid.UUID) (*admin.Admin, error) {
	return s.store.GetAdmin(ctx, id)
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]admin.Admin, error) {
	return s.store.ListAdmins(ctx)
}

func (s *AdminService) roleForEmail(email string) admin.Role {
	if email != "" && slices.Contains(s.mainAdminEmails, strings.ToLower(email)) {
		return admin.RoleMainAdmin
	}
	return admin.RolePersonal
}

// FindOrCreateAdminByProvider signs in an OAuth user. New accounts are
// personal unless their email is listed as a main admin; listed emails are
// promoted on every login.
func (s *AdminService) FindOrCreateAdminByProvider(ctx context.Context, gothUser goth.User) (*admin.Admin, error) {
	a, err := s.store.GetAdminByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		changed := false
		if utils.OrZero(a.AvatarURL) != gothUser.AvatarURL {
			a.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			changed = true
		}
		if role := s.roleForEmail(gothUser.Email); role == admin.RoleMainAdmin && a.Role != role {
			a.Role = role
			changed = true
		}
		if changed {
			if err := s.store.UpdateProfile(ctx, a); err != nil {
				return nil, err
			}
		}
		if err := s.store.TouchLastLogin(ctx, a.ID); err != nil {
			return nil, err
		}
		return a, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	name := gothUser.Name
	if name == "" {
		name = gothUser.NickName
	}
	newAdmin := &admin.Admin{
		ID:         uuid.New(),
		Username:   fmt.Sprintf("%s (%s)", name, gothUser.Provider),
		Email:      utils.StringOrNil(gothUser.Email),
		Role:       s.roleForEmail(gothUser.Email),
		Provider:   utils.Ptr(gothUser.Provider),
		ProviderID: utils.Ptr(gothUser.UserID),
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
	}
	if err := s.store.CreateAdmin(ctx, newAdmin); err != nil {
		return nil, err
	}
	return newAdmin, nil
}
