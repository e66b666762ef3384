package controllers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/services"
	"seenkeeper/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	cacheKeyItems = "items"
	cacheKeyCount = "count"
)

type ApiController struct {
	logger       providers.Logger
	service      services.StorageServiceInterface
	registration services.RegistrationServiceInterface
	cache        providers.CacheProviderInterface
	passphrase   []byte

	// generation is bumped on every invalidation; a view computed under an
	// older generation is served but not cached.
	cacheMu    sync.Mutex
	generation uint64
}

func NewApiController(logger providers.Logger, service services.StorageServiceInterface, registration services.RegistrationServiceInterface, cache providers.CacheProviderInterface, conf *structures.Config) *ApiController {
	return &ApiController{
		logger:       logger,
		service:      service,
		registration: registration,
		cache:        cache,
		passphrase:   []byte(conf.Premium.Passphrase),
	}
}

type itemsRequest struct {
	Text  string             `json:"text"`
	Items models.ViewedItems `json:"items"`
}

type oneItemRequest struct {
	ID string `json:"id"`
}

type unlockRequest struct {
	Passphrase string `json:"passphrase"`
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respond(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	ac.cacheMu.Lock()
	generation := ac.generation
	ac.cacheMu.Unlock()

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cacheMu.Lock()
	if generation == ac.generation {
		ac.cache.Set(cacheKey, gson)
	}
	ac.cacheMu.Unlock()
	writeJSON(w, http.StatusOK, gson)
}

func (ac *ApiController) invalidate() {
	ac.cacheMu.Lock()
	defer ac.cacheMu.Unlock()
	ac.generation++
	ac.cache.Invalidate()
}

func (ac *ApiController) GetItems(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyItems, func() (any, error) {
		return ac.service.GetViewedItems(r.Context()), nil
	})
}

func (ac *ApiController) GetCount(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyCount, func() (any, error) {
		return map[string]int{"count": ac.service.GetViewedItemsCount(r.Context())}, nil
	})
}

// SaveItems accepts either pasted text to register or an id→timestamp map.
func (ac *ApiController) SaveItems(w http.ResponseWriter, r *http.Request) {
	var payload itemsRequest
	if !decode(w, r, &payload) {
		return
	}

	if payload.Items != nil {
		if err := ac.service.SaveViewedItemsBulk(r.Context(), payload.Items); err != nil {
			ac.logger.Errorf(providers.TypePost, "Bulk save: %s", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ac.invalidate()
		respond(w, http.StatusCreated, map[string]int{"saved": len(payload.Items)})
		return
	}

	result, err := ac.registration.Register(r.Context(), payload.Text)
	if errors.Is(err, services.ErrEmptyInput) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Register: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if result.Added > 0 {
		ac.invalidate()
	}
	respond(w, http.StatusOK, result)
}

func (ac *ApiController) SaveOne(w http.ResponseWriter, r *http.Request) {
	var payload oneItemRequest
	if !decode(w, r, &payload) {
		return
	}
	id := strings.TrimSpace(payload.ID)
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.service.SaveViewedItem(r.Context(), id); err != nil {
		ac.logger.Errorf(providers.TypePost, "Save %s: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.invalidate()
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) ClearItems(w http.ResponseWriter, r *http.Request) {
	removed := ac.service.GetViewedItemsCount(r.Context())
	if !ac.service.ClearAllViewedItems(r.Context()) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.invalidate()
	respond(w, http.StatusOK, map[string]any{"cleared": true, "removed": removed})
}

func (ac *ApiController) GetAlertSettings(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, ac.service.GetAlertSettings(r.Context()))
}

// SaveAlertSettings stores the posted record as a whole; omitted fields are zero.
func (ac *ApiController) SaveAlertSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.AlertSettings
	if !decode(w, r, &settings) {
		return
	}
	if err := ac.service.SaveAlertSettings(r.Context(), settings); err != nil {
		ac.logger.Errorf(providers.TypePost, "Save alert settings: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, settings)
}

func (ac *ApiController) GetPremium(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]bool{"unlocked": ac.service.IsPremiumUnlocked(r.Context())})
}

func (ac *ApiController) UnlockPremium(w http.ResponseWriter, r *http.Request) {
	var payload unlockRequest
	if !decode(w, r, &payload) {
		return
	}
	if !services.MatchPassphrase(ac.passphrase, payload.Passphrase) {
		ac.logger.Warnf(providers.TypePost, "Premium unlock rejected")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := ac.service.UnlockPremium(r.Context()); err != nil {
		ac.logger.Errorf(providers.TypePost, "Unlock premium: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"unlocked": true})
}
