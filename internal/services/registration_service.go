package services

import (
	"context"
	"errors"
	"time"

	"seenkeeper/internal/itemid"
	"seenkeeper/internal/models"
	"seenkeeper/internal/providers"
)

var ErrEmptyInput = errors.New("no ids or urls given")

type RegistrationServiceInterface interface {
	Register(ctx context.Context, text string) (itemid.Result, error)
}

// RegistrationService records pasted URLs and ids as viewed. Already known
// ids keep their original timestamp.
type RegistrationService struct {
	storage StorageServiceInterface
	logger  providers.Logger
	now     func() time.Time
}

func NewRegistrationService(storage StorageServiceInterface, logger providers.Logger) *RegistrationService {
	return &RegistrationService{storage: storage, logger: logger, now: time.Now}
}

func (r *RegistrationService) Register(ctx context.Context, text string) (itemid.Result, error) {
	var result itemid.Result

	lines := itemid.Lines(text)
	if len(lines) == 0 {
		return result, ErrEmptyInput
	}

	known := r.storage.GetViewedItems(ctx)
	added := models.ViewedItems{}
	now := r.now().UnixMilli()
	for _, line := range lines {
		id, ok := itemid.Extract(line)
		switch {
		case !ok:
			result.Invalid++
		case known.Has(id) || added.Has(id):
			result.Skipped++
		default:
			added[id] = now
			result.Added++
		}
	}

	if err := r.storage.SaveViewedItemsBulk(ctx, added); err != nil {
		return itemid.Result{}, err
	}
	r.logger.Infof(providers.TypeStorage, "Registered %d items (%d known, %d invalid)", result.Added, result.Skipped, result.Invalid)
	return result, nil
}
