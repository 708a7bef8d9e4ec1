package handler

import (
	"github.com/unstoppable/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	habits   *service.HabitService
	ledger   *service.LedgerService
	settings *service.SettingService
	exports  *service.ExportService
	pinHash  []byte
}

// NewAPI constructs a handler set with shared services.
// pin 非空时启用访问口令保护，API 路由需要先登录。
func NewAPI(db *gorm.DB, pin string) (*API, error) {
	api := &API{
		db:       db,
		habits:   service.NewHabitService(db),
		ledger:   service.NewLedgerService(db),
		settings: service.NewSettingService(db),
		exports:  service.NewExportService(db),
	}

	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		api.pinHash = hash
	}

	return api, nil
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// PinConfigured 报告是否启用了访问口令。
func (a *API) PinConfigured() bool {
	return len(a.pinHash) > 0
}
