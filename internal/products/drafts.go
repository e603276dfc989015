package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/jewelcraft-backend/internal/validation"
	"github.com/angelmondragon/jewelcraft-backend/internal/variants"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/jewelcraft-backend/pkg/errors"
	"github.com/angelmondragon/jewelcraft-backend/pkg/redis"
)

const defaultDraftTTL = 72 * time.Hour

// DraftSession is a product builder session kept between requests.
type DraftSession struct {
	ID               string               `json:"id"`
	ProductType      enums.ProductType    `json:"product_type"`
	Draft            validation.Draft     `json:"draft"`
	Variants         []variants.Variant   `json:"variants"`
	DefaultVariantID *string              `json:"default_variant_id"`
	Form             validation.FormState `json:"form"`
	ProductID        *uuid.UUID           `json:"product_id,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func (s DraftSession) variantState() variants.State {
	return variants.State{
		Selection:        s.Draft.Selection,
		Variants:         s.Variants,
		DefaultVariantID: s.DefaultVariantID,
	}
}

func (s *DraftSession) applyVariantState(state variants.State) {
	s.Draft.Selection = state.Selection
	s.Variants = state.Variants
	s.DefaultVariantID = state.DefaultVariantID
}

type draftCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	DraftKey(id string) string
}

// DraftStore keeps builder sessions in Redis with a sliding TTL.
type DraftStore struct {
	cache draftCache
	ttl   time.Duration
	now   func() time.Time
}

// NewDraftStore wraps cache; a non-positive ttl falls back to 72h.
func NewDraftStore(cache draftCache, ttl time.Duration) (*DraftStore, error) {
	if cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "draft cache required")
	}
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftStore{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Save writes the session and resets its TTL.
func (d *DraftStore) Save(ctx context.Context, session *DraftSession) error {
	session.UpdatedAt = d.now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft")
	}
	if err := d.cache.Set(ctx, d.cache.DraftKey(session.ID), string(payload), d.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store draft")
	}
	return nil
}

// Load reads a session and extends its TTL. Expired or unknown drafts are NOT_FOUND.
func (d *DraftStore) Load(ctx context.Context, id string) (*DraftSession, error) {
	key := d.cache.DraftKey(id)
	raw, err := d.cache.Get(ctx, key)
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found").
				WithDetails(map[string]any{"draft_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}
	var session DraftSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft")
	}
	if _, err := d.cache.Expire(ctx, key, d.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh draft ttl")
	}
	return &session, nil
}

var _ draftCache = (*redis.Client)(nil)
