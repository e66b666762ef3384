package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"seenkeeper/internal/services"
)

// HealthController reports which store answers requests. A service running
// on the legacy mirror is "degraded" but still healthy enough to serve.
type HealthController struct {
	service   services.StorageServiceInterface
	startedAt time.Time
	now       func() time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Mode          string  `json:"mode"`
	Items         int     `json:"items"`
	StartedAt     string  `json:"started_at"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// Count first: it may itself flip the service into fallback mode.
	items := hc.service.GetViewedItemsCount(r.Context())
	mode := hc.service.Mode()

	resp := healthResponse{
		Status:        "ok",
		Mode:          string(mode),
		Items:         items,
		StartedAt:     hc.startedAt.UTC().Format(time.RFC3339),
		UptimeSeconds: hc.now().Sub(hc.startedAt).Truncate(time.Second).Seconds(),
	}
	if mode != services.ModeStructured {
		resp.Status = "degraded"
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func NewHealthController(service services.StorageServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startedAt: time.Now(),
		now:       time.Now,
	}
}
