package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

// ErrInviteTaken is returned when the invite code was claimed by a concurrent
// registration between the pre-check and the redeeming transaction.
var ErrInviteTaken = errors.New("invite code already used")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// RegisterWithInvite creates the user and flips the invite code to USED in
// one transaction. The conditional update guarantees that concurrent
// redemptions of the same code produce exactly one user.
func (r *UserRepository) RegisterWithInvite(user *model.User, inviteID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.InviteCode{}).
			Where("id = ? AND status = ?", inviteID, model.InviteStatusUnused).
			Updates(map[string]interface{}{
				"status":  model.InviteStatusUsed,
				"used_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("redeem invite code failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInviteTaken
		}

		user.InviteCodeID = inviteID
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user failed: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("InviteCode").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateName(id uint, name string) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("name", name).Error; err != nil {
		return fmt.Errorf("update user name failed: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(id uint, hash string) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update password hash failed: %w", err)
	}
	return nil
}

// AddEvals adjusts the credit balance by delta and returns the new balance.
// The balance never drops below zero.
func (r *UserRepository) AddEvals(id uint, delta int) (int, error) {
	var balance int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", id).
			Update("remaining_evals", gorm.Expr("GREATEST(remaining_evals + ?, 0)", delta))
		if res.Error != nil {
			return fmt.Errorf("adjust remaining evals failed: %w", res.Error)
		}

		// MySQL reports zero affected rows when GREATEST leaves the value
		// unchanged (balance already 0, negative delta), so the reload, not
		// RowsAffected, decides whether the user exists.
		var user model.User
		if err := tx.Select("remaining_evals").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return fmt.Errorf("reload remaining evals failed: %w", err)
		}
		balance = user.RemainingEvals
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *UserRepository) SetAdmin(id uint, isAdmin bool) error {
	res := r.db.Model(&model.User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if res.Error != nil {
		return fmt.Errorf("update admin flag failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
