// Package service holds the cafe operations independent of HTTP and of the
// concrete storage engine.
package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"cafeapi/model"
	"cafeapi/repository"

	"github.com/rs/zerolog/log"
)

const (
	MsgNoCafes          = "Sorry, there are no cafes in the database."
	MsgNoCafeAtLocation = "Sorry, we do not have a cafe at that location."
	MsgMissingLocation  = "The loc query parameter is required."
	MsgCafeAdded        = "Successfully added the new cafe"
	MsgDuplicateName    = "A cafe with that name already exists."
	MsgPriceUpdated     = "Successfully updated the price"
	MsgPriceIDNotFound  = "Sorry a cafe with the id you inputed was not found in the database"
	MsgMissingPrice     = "The new_price query parameter is required."
	MsgCafeDeleted      = "Cafe successfully deleted"
	MsgDeleteNotFound   = "The cafe you were looking for was not found"
	MsgInvalidAPIKey    = "Sorry that is not allowed make sure you have a valid api key."
	MsgInternal         = "Internal server error"
)

type APIKeyChecker interface {
	Valid(key string) bool
}

// AddCafeInput carries the raw form values of an add request. A nil pointer
// means the field was absent.
type AddCafeInput struct {
	Name         *string
	MapURL       *string
	ImgURL       *string
	Location     *string
	Seats        *string
	HasToilet    *string
	HasWifi      *string
	HasSockets   *string
	CanTakeCalls *string
	CoffeePrice  *string
}

type Options struct {
	// StrictBooleans parses booleans explicitly instead of treating every
	// non-empty value as true.
	StrictBooleans bool
	// Rand picks the index for Random. Defaults to math/rand.Intn.
	Rand func(n int) int
}

type CafeService struct {
	repo   repository.CafeRepository
	keys   APIKeyChecker
	strict bool
	intn   func(n int) int
}

func NewCafeService(repo repository.CafeRepository, keys APIKeyChecker, opts Options) *CafeService {
	intn := opts.Rand
	if intn == nil {
		intn = rand.Intn
	}
	return &CafeService{repo: repo, keys: keys, strict: opts.StrictBooleans, intn: intn}
}

// Random returns one cafe chosen uniformly from the whole table.
func (s *CafeService) Random(ctx context.Context) (model.CafeResponse, error) {
	cafes, err := s.repo.FindAll(ctx)
	if err != nil {
		return model.CafeResponse{}, newError(KindInternal, MsgInternal, err)
	}
	if len(cafes) == 0 {
		return model.CafeResponse{}, newError(KindNotFound, MsgNoCafes, nil)
	}
	return model.ShapeCafe(cafes[s.intn(len(cafes))]), nil
}

func (s *CafeService) All(ctx context.Context) ([]model.CafeResponse, error) {
	cafes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return model.ShapeCafes(cafes), nil
}

// Search matches the normalized location exactly. No matches is NotFound;
// only an absent location is a bad request.
func (s *CafeService) Search(ctx context.Context, location *string) ([]model.CafeResponse, error) {
	if location == nil {
		return nil, newError(KindBadRequest, MsgMissingLocation, nil)
	}
	cafes, err := s.repo.FindByLocation(ctx, model.NormalizeLocation(*location))
	if err != nil {
		return nil, newError(KindInternal, MsgInternal, err)
	}
	if len(cafes) == 0 {
		return nil, newError(KindNotFound, MsgNoCafeAtLocation, nil)
	}
	return model.ShapeCafes(cafes), nil
}

// Add validates and stores a new cafe, returning it with its assigned id.
func (s *CafeService) Add(ctx context.Context, in AddCafeInput) (*model.Cafe, error) {
	return s.add(ctx, in, s.strict)
}

func (s *CafeService) add(ctx context.Context, in AddCafeInput, strict bool) (*model.Cafe, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"name", in.Name},
		{"map_url", in.MapURL},
		{"img_url", in.ImgURL},
		{"location", in.Location},
		{"seats", in.Seats},
		{"has_toilet", in.HasToilet},
		{"has_wifi", in.HasWifi},
		{"has_sockets", in.HasSockets},
		{"can_take_calls", in.CanTakeCalls},
		{"coffee_price", in.CoffeePrice},
	}
	var missing []string
	for _, f := range required {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, newError(KindBadRequest, "Missing required fields: "+strings.Join(missing, ", "), nil)
	}

	cafe := &model.Cafe{
		Name:         *in.Name,
		MapURL:       *in.MapURL,
		ImgURL:       *in.ImgURL,
		Location:     *in.Location,
		Seats:        *in.Seats,
		HasToilet:    coerceBool(*in.HasToilet, strict),
		HasWifi:      coerceBool(*in.HasWifi, strict),
		HasSockets:   coerceBool(*in.HasSockets, strict),
		CanTakeCalls: coerceBool(*in.CanTakeCalls, strict),
		CoffeePrice:  in.CoffeePrice,
	}
	if err := s.repo.Insert(ctx, cafe); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, newError(KindConflict, MsgDuplicateName, err)
		}
		return nil, newError(KindInternal, MsgInternal, err)
	}
	log.Ctx(ctx).Info().Uint("cafe_id", cafe.ID).Str("name", cafe.Name).Msg("cafe added")
	return cafe, nil
}

// UpdatePrice overwrites coffee_price of one cafe and nothing else.
func (s *CafeService) UpdatePrice(ctx context.Context, id uint, newPrice *string) error {
	if newPrice == nil {
		return newError(KindBadRequest, MsgMissingPrice, nil)
	}
	if err := s.repo.UpdateField(ctx, id, repository.FieldCoffeePrice, *newPrice); err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return newError(KindNotFound, MsgPriceIDNotFound, err)
		}
		return newError(KindInternal, MsgInternal, err)
	}
	log.Ctx(ctx).Info().Uint("cafe_id", id).Str("coffee_price", *newPrice).Msg("coffee price updated")
	return nil
}

// Authorize checks the shared secret required for destructive calls.
func (s *CafeService) Authorize(ctx context.Context, apiKey string) error {
	if !s.keys.Valid(apiKey) {
		log.Ctx(ctx).Warn().Msg("rejected: invalid api key")
		return newError(KindForbidden, MsgInvalidAPIKey, nil)
	}
	return nil
}

// Delete removes one cafe. The key is checked before the cafe is looked up.
func (s *CafeService) Delete(ctx context.Context, id uint, apiKey string) error {
	if err := s.Authorize(ctx, apiKey); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return newError(KindNotFound, MsgDeleteNotFound, err)
		}
		return newError(KindInternal, MsgInternal, err)
	}
	log.Ctx(ctx).Info().Uint("cafe_id", id).Msg("cafe deleted")
	return nil
}

func coerceBool(v string, strict bool) bool {
	if !strict {
		return v != ""
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
