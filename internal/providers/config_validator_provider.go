package providers

import (
	"fmt"
	"seenkeeper/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if cv.conf.Structured.ReopenInterval < 0 {
		return fmt.Errorf("invalid config: structured.reopenInterval must not be negative")
	}
	if cv.conf.Legacy.SyncInterval < 0 {
		return fmt.Errorf("invalid config: legacy.syncInterval must not be negative")
	}
	if cv.conf.Legacy.SyncInterval > 0 && cv.conf.Legacy.SyncInterval < time.Second {
		return fmt.Errorf("invalid config: legacy.syncInterval must be 0 or at least 1s")
	}
	if cv.conf.Structured.Path == cv.conf.Legacy.Path {
		return fmt.Errorf("invalid config: structured.path and legacy.path must differ")
	}
	return nil
}
