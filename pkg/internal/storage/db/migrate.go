package db

import (
	"fmt"

	"github.com/yeisme/mediakiosk/pkg/internal/model"
)

// Migrate 自动迁移业务表结构.
func (c *Client) Migrate() error {
	if err := c.AutoMigrate(
		&model.MediaRecord{},
		&model.QRMapping{},
		&model.Entitlement{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return nil
}
