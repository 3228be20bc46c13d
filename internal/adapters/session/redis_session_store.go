package session

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "dispatch:session:"
	DefaultTTL       = 24 * time.Hour
)

// Redis-backed SessionStore. Each session is one JSON value whose TTL is
// refreshed on every save.
type RedisStore struct {
	Client redis.UniversalClient
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{Client: client, Prefix: DefaultKeyPrefix, TTL: ttl}
}

type pointRecord struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Type string  `json:"type"`
}

type routeRecord struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	Jurisdictions []string      `json:"jurisdictions"`
	Points        []pointRecord `json:"points"`
	Mode          string        `json:"mode"`
}

type sessionRecord struct {
	Tier            string       `json:"tier"`
	CurrentLocation string       `json:"current_location"`
	LastRoute       *routeRecord `json:"last_route,omitempty"`
}

func (s *RedisStore) key(sessionID string) string {
	return s.Prefix + sessionID
}

func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	raw, err := s.Client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewSession(sessionID), nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Session{}, fmt.Errorf("get session %s: decode: %w", sessionID, err)
	}

	tier, err := domain.ParseTier(rec.Tier)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	out := domain.Session{ID: sessionID, Tier: tier, CurrentLocation: rec.CurrentLocation}
	if rec.LastRoute != nil {
		r := domain.Route{
			Origin:        rec.LastRoute.Origin,
			Destination:   rec.LastRoute.Destination,
			Jurisdictions: rec.LastRoute.Jurisdictions,
			Mode:          rec.LastRoute.Mode,
		}
		for _, p := range rec.LastRoute.Points {
			r.Points = append(r.Points, domain.RoutePoint{
				Name:   p.Name,
				Coords: domain.Coordinates{Lon: p.Lon, Lat: p.Lat},
				Type:   domain.RoutePointType(p.Type),
			})
		}
		out.LastRoute = &r
	}
	return out, nil
}

func (s *RedisStore) SaveSession(ctx context.Context, sess domain.Session) error {
	rec := sessionRecord{Tier: string(sess.Tier), CurrentLocation: sess.CurrentLocation}
	if r := sess.LastRoute; r != nil {
		rr := &routeRecord{
			Origin:        r.Origin,
			Destination:   r.Destination,
			Jurisdictions: r.Jurisdictions,
			Mode:          r.Mode,
		}
		for _, p := range r.Points {
			rr.Points = append(rr.Points, pointRecord{Name: p.Name, Lon: p.Coords.Lon, Lat: p.Coords.Lat, Type: string(p.Type)})
		}
		rec.LastRoute = rr
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save session %s: encode: %w", sess.ID, err)
	}
	if err := s.Client.Set(ctx, s.key(sess.ID), raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}
