package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/authcookie"
	"github.com/smarthr/portal/internal/models"
)

func (r *GormRepo) AddRefresh(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) refreshExpiredOrRevoked(db *gorm.DB, jti string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, err
	}
	if refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked {
		return true, nil
	}
	return false, nil
}

func (r *GormRepo) markAsUsed(db *gorm.DB, jti string) error {
	return db.Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

func (r *GormRepo) RefreshExpiredOrRevoked(ctx context.Context, jti string) (bool, error) {
	return r.refreshExpiredOrRevoked(r.DB.WithContext(ctx), jti)
}

// RotateRefreshToken revokes the old token and stores the new one in a single
// transaction, so a replayed refresh call cannot reuse the old JTI.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := r.refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return errors.New("token expired or revoked")
		}
		if err := r.markAsUsed(tx, oldJTI); err != nil {
			return err
		}
		return tx.Create(newToken).Error
	})
}

func (r *GormRepo) RevokeRefreshByValue(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", authcookie.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}

func (r *GormRepo) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) UseResetToken(ctx context.Context, userID uint, token string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordResetToken
		if err := tx.Where("user_id = ? AND token = ?", userID, authcookie.Sha256Hex(token)).
			First(&reset).Error; err != nil {
			return err
		}
		if reset.Used || reset.ExpiresAt < time.Now().Unix() {
			return errors.New("token expired or used")
		}
		return tx.Model(&reset).Update("used", true).Error
	})
}
