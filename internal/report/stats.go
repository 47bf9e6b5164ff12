package report

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// Stat is one selectable section of a rendered report
type Stat string

const (
	StatTotalTasks         Stat = "total_tasks"
	StatCompleteIncomplete Stat = "complete_incomplete"
	StatStatusBreakdown    Stat = "status_breakdown"
)

// AllStats lists every section in display order
var AllStats = []Stat{StatTotalTasks, StatCompleteIncomplete, StatStatusBreakdown}

// Stats is a selection of sections
type Stats []Stat

// ParseStats keeps the known names in display order. An empty selection
// means every section.
func ParseStats(values []string) Stats {
	var out Stats
	for _, stat := range AllStats {
		if slices.Contains(values, string(stat)) {
			out = append(out, stat)
		}
	}
	if len(out) == 0 {
		return slices.Clone(AllStats)
	}
	return out
}

// Has reports whether stat is selected
func (s Stats) Has(stat Stat) bool {
	return slices.Contains(s, stat)
}

func (s Stats) strings() []string {
	out := make([]string, len(s))
	for i, stat := range s {
		out[i] = string(stat)
	}
	return out
}

func settingKeys(userID int64) (projectIDs, stats string) {
	prefix := "report." + strconv.FormatInt(userID, 10) + "."
	return prefix + "project_ids", prefix + "stats"
}

// Config is the last report selection a user made. It is kept in the
// settings table, one pair of keys per user.
type Config struct {
	ProjectIDs []int64
	Stats      Stats
}

// SettingsStore persists small string values
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// LoadConfig returns the remembered selection. Unknown or malformed
// values are dropped.
func LoadConfig(ctx context.Context, store SettingsStore, userID int64) (Config, error) {
	idsKey, statsKey := settingKeys(userID)
	rawIDs, err := store.GetSetting(ctx, idsKey)
	if err != nil {
		return Config{}, err
	}
	rawStats, err := store.GetSetting(ctx, statsKey)
	if err != nil {
		return Config{}, err
	}
	return Config{
		ProjectIDs: ParseIDs(splitList(rawIDs)),
		Stats:      ParseStats(splitList(rawStats)),
	}, nil
}

// SaveConfig remembers a selection
func SaveConfig(ctx context.Context, store SettingsStore, userID int64, cfg Config) error {
	idsKey, statsKey := settingKeys(userID)
	ids := make([]string, len(cfg.ProjectIDs))
	for i, id := range cfg.ProjectIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	if err := store.SetSetting(ctx, idsKey, strings.Join(ids, ",")); err != nil {
		return err
	}
	return store.SetSetting(ctx, statsKey, strings.Join(ParseStats(cfg.Stats.strings()).strings(), ","))
}

// ParseIDs converts id strings, skipping blanks and anything that is not
// a positive integer
func ParseIDs(values []string) []int64 {
	var ids []int64
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
