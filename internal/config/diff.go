package config

import (
	"sort"
	"strings"

	logx "classbook/pkg/logx"
)

// SummarizeConfigChange returns the changed sections and structured attrs for
// logging, plus whether the change needs a restart to take effect.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field, bool) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 3)
	attrs := make([]logx.Field, 0, 10)
	restart := false

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Storage.Driver != newCfg.Storage.Driver ||
		strings.TrimSpace(oldCfg.Storage.Path) != strings.TrimSpace(newCfg.Storage.Path) ||
		oldCfg.Storage.Format != newCfg.Storage.Format ||
		strings.TrimSpace(oldCfg.Storage.BusyTimeout) != strings.TrimSpace(newCfg.Storage.BusyTimeout) {
		changed = append(changed, "storage")
		restart = true
		attrs = append(attrs,
			logx.String("storage.driver", newCfg.Storage.Driver),
			logx.String("storage.path", newCfg.Storage.Path),
			logx.String("storage.format", newCfg.Storage.Format),
		)
	}

	if oldCfg.Display != newCfg.Display {
		changed = append(changed, "display")
		attrs = append(attrs,
			logx.Int("display.page_size", newCfg.Display.PageSize),
			logx.String("display.timezone", newCfg.Display.Timezone),
		)
	}

	sort.Strings(changed)
	return changed, attrs, restart
}
