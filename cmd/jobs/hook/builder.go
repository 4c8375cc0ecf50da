package hook

import (
	"net/http"
	"time"

	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	cfg_hook "github.com/opst/photoshare/pkg/configs/hook"
)

// timeout of each hook request
const Timeout = 30 * time.Second

// Build makes a lifecycle hook of jobs from config.
func Build(cfg cfg_hook.WebHook) Hook[apijobs.Detail, struct{}] {
	if len(cfg.Before) == 0 && len(cfg.After) == 0 {
		return None[apijobs.Detail]{}
	}
	return Web[apijobs.Detail, struct{}]{
		BeforeURL: cfg.Before,
		AfterURL:  cfg.After,
		Merge:     func(a, _ struct{}) struct{} { return a },
		Client:    &http.Client{Timeout: Timeout},
	}
}
