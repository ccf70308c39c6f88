package gormtoken

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/guardkit/guardkit/remember"
)

// Row is the GORM model for a persisted remember-me token.
type Row struct {
	Series    string    `gorm:"column:series;primaryKey;size:36"`
	Hash      string    `gorm:"column:hash;size:64;not null"`
	UserID    string    `gorm:"column:user_id;size:255;not null;index"`
	GuardName string    `gorm:"column:guard_name;size:64;not null"`
	Type      string    `gorm:"column:type;size:32;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

// TableName pins the table name regardless of GORM naming strategy.
func (Row) TableName() string {
	return "remember_me_tokens"
}

// Provider is a GORM-backed guardkit.TokenProvider.
type Provider struct {
	db *gorm.DB
}

// New creates a Provider and migrates the remember_me_tokens table.
func New(db *gorm.DB) (*Provider, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, err
	}
	return &Provider{db: db}, nil
}

// CreateToken inserts the token row.
func (p *Provider) CreateToken(ctx context.Context, token *remember.Token) error {
	return p.db.WithContext(ctx).Create(rowFromToken(token)).Error
}

// GetTokenBySeries loads a token row. An unknown series yields (nil, nil).
func (p *Provider) GetTokenBySeries(ctx context.Context, series string) (*remember.Token, error) {
	var row Row
	err := p.db.WithContext(ctx).First(&row, "series = ?", series).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.token()
}

// UpdateTokenBySeries overwrites the row for the given series.
func (p *Provider) UpdateTokenBySeries(ctx context.Context, series string, token *remember.Token) error {
	row := rowFromToken(token)
	return p.db.WithContext(ctx).
		Model(&Row{}).
		Where("series = ?", series).
		Updates(map[string]any{
			"hash":       row.Hash,
			"updated_at": row.UpdatedAt,
			"expires_at": row.ExpiresAt,
		}).Error
}

// DeleteTokenBySeries removes the row. Deleting an unknown series is a no-op.
func (p *Provider) DeleteTokenBySeries(ctx context.Context, series string) error {
	return p.db.WithContext(ctx).Delete(&Row{}, "series = ?", series).Error
}

// PurgeExpired deletes every row whose expiry is at or before now. Intended
// for a periodic maintenance job.
func (p *Provider) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := p.db.WithContext(ctx).Delete(&Row{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}

func rowFromToken(token *remember.Token) *Row {
	return &Row{
		Series:    token.Series,
		Hash:      remember.EncodeHash(token.Hash),
		UserID:    token.UserID,
		GuardName: token.GuardName,
		Type:      token.Type,
		CreatedAt: token.CreatedAt,
		UpdatedAt: token.UpdatedAt,
		ExpiresAt: token.ExpiresAt,
	}
}

func (r *Row) token() (*remember.Token, error) {
	hash, err := remember.DecodeHash(r.Hash)
	if err != nil {
		return nil, err
	}
	return &remember.Token{
		Series:    r.Series,
		Hash:      hash,
		UserID:    r.UserID,
		GuardName: r.GuardName,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		ExpiresAt: r.ExpiresAt,
	}, nil
}
