package graphql

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/domain"
)

type settingResolver struct {
	setting domain.Setting
}

func (s *settingResolver) Key() string   { return s.setting.Key }
func (s *settingResolver) Value() string { return string(s.setting.Value) }

// UpdatedAt is null for settings never changed from defaults.
func (s *settingResolver) UpdatedAt() *graphql.Time {
	if s.setting.UpdatedAt.IsZero() {
		return nil
	}
	return &graphql.Time{Time: s.setting.UpdatedAt}
}
