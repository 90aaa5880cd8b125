package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CatalogoService resolves canonical movement-type / payment-method names to
// the numeric ids legacy consumers key on.
//
// The cache is an explicit dependency owned by the composition root — TTL
// plus manual invalidation, never a process-lifetime singleton.
type CatalogoService interface {
	// Resolver returns the name→id maps. A storage failure yields EMPTY maps
	// and a warn log, not an error: downstream operations proceed without
	// numeric ids (degraded mode).
	Resolver(ctx context.Context) *dto.CatalogoResponse
	// Invalidar drops the cached catalog so the next Resolver call refetches.
	Invalidar(ctx context.Context) error
}

// CatalogoCache is the cache surface the service needs. Backed by Redis in
// production; tests supply an in-memory fake.
type CatalogoCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const catalogoCacheKey = "catalogo:v1"

type catalogoService struct {
	repo  repository.CatalogoRepository
	cache CatalogoCache
	ttl   time.Duration
}

func NewCatalogoService(repo repository.CatalogoRepository, cache CatalogoCache, ttl time.Duration) CatalogoService {
	return &catalogoService{repo: repo, cache: cache, ttl: ttl}
}

func (s *catalogoService) Resolver(ctx context.Context) *dto.CatalogoResponse {
	if data, err := s.cache.Get(ctx, catalogoCacheKey); err == nil && data != nil {
		var cached dto.CatalogoResponse
		if json.Unmarshal(data, &cached) == nil {
			return &cached
		}
	}

	resp := s.fetch(ctx)

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, catalogoCacheKey, data, s.ttl); err != nil {
			log.Warn().Err(err).Msg("catalogo: cache set failed")
		}
	}
	return resp
}

func (s *catalogoService) Invalidar(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogoCacheKey)
}

// fetch builds the maps from the DB. Keys are uppercase names plus their
// accent-stripped variants so "CRÉDITO" and "CREDITO" both resolve.
func (s *catalogoService) fetch(ctx context.Context) *dto.CatalogoResponse {
	resp := &dto.CatalogoResponse{
		TiposMovimiento: make(map[string]int),
		MetodosPago:     make(map[string]int),
	}

	tipos, err := s.repo.ListTiposMovimiento(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalogo: tipos de movimiento no disponibles, modo degradado")
		return resp
	}
	metodos, err := s.repo.ListMetodosPago(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalogo: metodos de pago no disponibles, modo degradado")
		return resp
	}

	for _, t := range tipos {
		addVariants(resp.TiposMovimiento, t.Nombre, t.ID)
	}
	for _, m := range metodos {
		addVariants(resp.MetodosPago, m.Nombre, m.ID)
	}
	return resp
}

func addVariants(m map[string]int, nombre string, id int) {
	upper := strings.ToUpper(strings.TrimSpace(nombre))
	m[upper] = id
	if stripped := model.NormalizeName(nombre); stripped != upper {
		m[stripped] = id
	}
}

// RedisCatalogoCache adapts a go-redis client to CatalogoCache.
type RedisCatalogoCache struct{ rdb *redis.Client }

func NewRedisCatalogoCache(rdb *redis.Client) *RedisCatalogoCache {
	return &RedisCatalogoCache{rdb: rdb}
}

func (c *RedisCatalogoCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (c *RedisCatalogoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCatalogoCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
