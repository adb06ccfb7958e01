package services

import (
	"context"
	"encoding/json"

	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/referentiel/dto"
)

// SnapshotCache est le cache d'instantanés de listes du référentiel.
// L'instantané est remplacé en bloc à chaque lecture réussie et invalidé
// après chaque mutation : jamais de fusion partielle.
type SnapshotCache interface {
	Get(ctx context.Context, entity string) ([]dto.Record, bool)
	Set(ctx context.Context, entity string, records []dto.Record)
	Invalidate(ctx context.Context, entity string)
}

// snapshotPattern référence le pattern Redis qui porte la convention
// de nommage et le TTL des instantanés
const snapshotPattern = "referentiel_snapshot"

// ResourceCacheService implémente SnapshotCache sur Redis, en best effort :
// toute défaillance Redis se traduit par un cache miss, jamais par une erreur.
type ResourceCacheService struct {
	redis *redisInfra.Client
}

func NewResourceCacheService(redis *redisInfra.Client) *ResourceCacheService {
	return &ResourceCacheService{redis: redis}
}

func (s *ResourceCacheService) Get(ctx context.Context, entity string) ([]dto.Record, bool) {
	if s.redis == nil {
		return nil, false
	}

	payload, err := s.redis.GetWithPattern(ctx, snapshotPattern, entity)
	if err != nil || payload == "" {
		return nil, false
	}

	var records []dto.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false
	}
	return records, true
}

func (s *ResourceCacheService) Set(ctx context.Context, entity string, records []dto.Record) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return
	}
	s.redis.SetWithPattern(ctx, snapshotPattern, string(payload), entity)
}

func (s *ResourceCacheService) Invalidate(ctx context.Context, entity string) {
	if s.redis == nil {
		return
	}
	s.redis.DelWithPattern(ctx, snapshotPattern, entity)
}
