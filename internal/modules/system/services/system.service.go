package services

import (
	"context"

	"evoluflow-core/internal/app/config"
	"evoluflow-core/internal/infrastructure/database/mongodb"
	"evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	authQueries "evoluflow-core/internal/modules/auth/queries"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	referentielServices "evoluflow-core/internal/modules/referentiel/services"
	"evoluflow-core/internal/modules/system/dto"
)

// SystemService expose l'état de l'application : catalogue, compteurs,
// disponibilité des dépendances d'infrastructure
type SystemService struct {
	config   *config.Config
	registry *descriptor.Registry
	store    referentielServices.ResourceStore
	db       *postgres.Client
	redis    *redisInfra.Client
	mongo    *mongodb.Client
}

// NewSystemService crée une nouvelle instance du service système
func NewSystemService(
	cfg *config.Config,
	registry *descriptor.Registry,
	store referentielServices.ResourceStore,
	db *postgres.Client,
	redisClient *redisInfra.Client,
	mongoClient *mongodb.Client,
) *SystemService {
	return &SystemService{
		config:   cfg,
		registry: registry,
		store:    store,
		db:       db,
		redis:    redisClient,
		mongo:    mongoClient,
	}
}

// Info décrit l'application et les entités du référentiel
func (s *SystemService) Info() *dto.InfoResponse {
	descriptors := s.registry.List()
	entities := make([]dto.EntityInfo, 0, len(descriptors))
	for _, d := range descriptors {
		entities = append(entities, dto.EntityInfo{
			Name:    d.Name,
			Libelle: d.Libelle,
			Prefix:  d.Prefix,
		})
	}

	return &dto.InfoResponse{
		Application: "EvoluFlow",
		Version:     s.config.App.Version,
		Environment: s.config.App.Environment,
		Entities:    entities,
	}
}

// Stats compte les enregistrements de chaque entité du référentiel
// et les utilisateurs. Une entité en erreur compte pour zéro.
func (s *SystemService) Stats(ctx context.Context) *dto.StatsResponse {
	stats := &dto.StatsResponse{
		Entities: make(map[string]int64),
	}

	for _, d := range s.registry.List() {
		count, err := s.store.Count(ctx, d)
		if err != nil {
			stats.Entities[d.Name] = 0
			continue
		}
		stats.Entities[d.Name] = int64(count)
		stats.Total += int64(count)
	}

	var users int64
	if err := s.db.QueryRow(ctx, authQueries.UserQueries.CountUsers).Scan(&users); err == nil {
		stats.Users = users
	}

	return stats
}

// Ready vérifie la disponibilité de PostgreSQL, Redis et MongoDB.
// PostgreSQL et Redis sont requis, MongoDB est optionnel.
func (s *SystemService) Ready(ctx context.Context) *dto.ReadyResponse {
	result := &dto.ReadyResponse{
		Ready:    true,
		Services: make(map[string]string),
	}

	if err := s.db.Ping(ctx); err != nil {
		result.Ready = false
		result.Services["postgresql"] = "unavailable"
	} else {
		result.Services["postgresql"] = "ok"
	}

	if err := s.redis.Ping(ctx); err != nil {
		result.Ready = false
		result.Services["redis"] = "unavailable"
	} else {
		result.Services["redis"] = "ok"
	}

	if err := s.mongo.Ping(ctx); err != nil {
		result.Services["mongodb"] = "unavailable"
	} else {
		result.Services["mongodb"] = "ok"
	}

	return result
}
