package task

import (
	"strings"
	"time"

	"yqms/internal/syncer"

	"github.com/spf13/viper"
)

// NewRegistry builds the sync task registry from static configuration. Task
// identity (name, natural key, sweep policy) is fixed in code; cadence and
// retry profiles come from config with per-task defaults.
func NewRegistry(conf *viper.Viper) (*syncer.Registry, error) {
	return syncer.NewRegistry([]*syncer.Task{
		InlineOrders(settings(conf, "inline_orders")),
		CutPanelOrders(settings(conf, "cutpanel_orders")),
		QC1Sunrise(settings(conf, "qc1_sunrise")),
	})
}

// Settings are the config-tunable knobs of a task.
type Settings struct {
	Source      string
	Collection  string
	Cadence     time.Duration
	MaxRetries  int
	RetryBase   time.Duration
	RetryJitter time.Duration
}

func settings(conf *viper.Viper, name string) Settings {
	var s Settings
	sub := conf.Sub("tasks." + name)
	if sub == nil {
		return s
	}
	s.Source = sub.GetString("source")
	s.Collection = sub.GetString("collection")
	s.Cadence = sub.GetDuration("cadence")
	s.MaxRetries = sub.GetInt("max_retries")
	s.RetryBase = sub.GetDuration("retry_base")
	s.RetryJitter = sub.GetDuration("retry_jitter")
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

// determineBuyer derives the buyer from the manufacturing-order number.
func determineBuyer(moNo string) string {
	switch {
	case moNo == "":
		return "Other"
	case strings.Contains(moNo, "CO"):
		return "Costco"
	case strings.Contains(moNo, "AR"):
		return "Aritzia"
	case strings.Contains(moNo, "RT"):
		return "Reitmans"
	case strings.Contains(moNo, "AF"):
		return "ANF"
	case strings.Contains(moNo, "NT"):
		return "STORI"
	default:
		return "Other"
	}
}
