package site

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/metrics"
)

// Feature is one independently initialized part of the site.
type Feature struct {
	Name  string
	Setup func() error
}

// Boot runs every feature's setup in order. A feature that fails or panics
// is logged and skipped; the rest still start. It returns the names of the
// features that started.
func Boot(log *zap.Logger, features ...Feature) []string {
	if log == nil {
		log = zap.NewNop()
	}
	var started []string
	for _, f := range features {
		if err := setup(f); err != nil {
			metrics.FeatureFailed()
			log.Warn("feature disabled", zap.String("feature", f.Name), zap.Error(err))
			continue
		}
		started = append(started, f.Name)
	}
	log.Info("site initialized", zap.Strings("features", started))
	return started
}

func setup(f Feature) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()
	if f.Setup == nil {
		return nil
	}
	return f.Setup()
}
