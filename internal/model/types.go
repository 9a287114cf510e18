// Package model defines shared option structures.
package model

import (
	"time"

	"github.com/verte-zerg/studydeck/internal/history"
)

// DefaultCurveWindow is the moving average window used when none is
// configured.
const DefaultCurveWindow = 5

// StudyConfig defines study session settings.
type StudyConfig struct {
	Shuffle bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Period      history.Period
	Set         string
	Last        int
	CurveWindow int
}

// Options is the resolved runtime configuration after merging the config
// file with command line flags.
type Options struct {
	Study     StudyConfig
	History   HistoryConfig
	DBPath    string
	RoutePath string
	LogPath   string
	Debug     bool
	Now       func() time.Time
}

// Clock returns o.Now, or time.Now when unset.
func (o Options) Clock() func() time.Time {
	if o.Now == nil {
		return time.Now
	}
	return o.Now
}
