package app

import (
	"log/slog"
	"strings"

	"evalhub/internal/model"
	"evalhub/internal/repository"
)

const (
	ConfigKeySiteTitle  = "siteTitle"
	ConfigKeyPageHeader = "pageHeader"

	defaultSiteTitle  = "AI智能评测系统"
	defaultPageHeader = "AI智能评测"
)

type ConfigService struct {
	configs *repository.SystemConfigRepository
	logger  *slog.Logger
}

type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func NewConfigService(configs *repository.SystemConfigRepository, logger *slog.Logger) *ConfigService {
	return &ConfigService{configs: configs, logger: logger}
}

// Public returns the site title and page header with hard-coded defaults
// overlaid by stored values. A failing store yields the defaults, never an
// error: the public config endpoint must always answer.
func (s *ConfigService) Public() map[string]string {
	result := map[string]string{
		ConfigKeySiteTitle:  defaultSiteTitle,
		ConfigKeyPageHeader: defaultPageHeader,
	}

	rows, err := s.configs.ListByKeys([]string{ConfigKeySiteTitle, ConfigKeyPageHeader})
	if err != nil {
		s.logger.Warn("load public config failed", "error", err)
		return result
	}
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result
}

func (s *ConfigService) ListAll() ([]model.SystemConfig, error) {
	return s.configs.ListAll()
}

func (s *ConfigService) UpsertAll(entries []ConfigEntry) error {
	for _, entry := range entries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return ErrInvalidInput
		}
		if err := s.configs.Upsert(key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}
