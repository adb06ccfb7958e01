package seeds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"evoluflow-core/internal/app/config"
	"evoluflow-core/internal/infrastructure/database/mongodb"
	"evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	authQueries "evoluflow-core/internal/modules/auth/queries"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
	referentielServices "evoluflow-core/internal/modules/referentiel/services"
	themeServices "evoluflow-core/internal/modules/theme/services"
	"evoluflow-core/internal/shared/utils"
)

const (
	adminIdentifiant   = "admin"
	seedUtilisateur    = "system"
	devDefaultPassword = "Admin@2024"
)

// SeedingService crée les données initiales : compte administrateur,
// données de référence et préréglages de thème
type SeedingService struct {
	db       *postgres.Client
	mongo    *mongodb.Client
	redis    *redisInfra.Client
	registry *descriptor.Registry
	store    referentielServices.ResourceStore
	config   *config.Config
}

// NewSeedingService crée une nouvelle instance du service de seeding
func NewSeedingService(
	db *postgres.Client,
	mongoClient *mongodb.Client,
	redisClient *redisInfra.Client,
	registry *descriptor.Registry,
	store referentielServices.ResourceStore,
	cfg *config.Config,
) *SeedingService {
	return &SeedingService{
		db:       db,
		mongo:    mongoClient,
		redis:    redisClient,
		registry: registry,
		store:    store,
		config:   cfg,
	}
}

// CheckSeedDataExists vérifie quelles données initiales sont déjà présentes
func (s *SeedingService) CheckSeedDataExists(ctx context.Context) (*SeedDataStatus, error) {
	status := &SeedDataStatus{}

	var adminExists bool
	if err := s.db.QueryRow(ctx, authQueries.UserQueries.CheckUserExists, adminIdentifiant).Scan(&adminExists); err != nil {
		return nil, fmt.Errorf("vérification compte admin: %w", err)
	}
	status.AdminExists = adminExists

	if d, ok := s.registry.Lookup("situation"); ok {
		count, err := s.store.Count(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("vérification données de référence: %w", err)
		}
		status.ReferenceDataExists = count > 0
	}

	status.ThemePresetsExist = s.themePresetsExist(ctx)

	status.AllDataExists = status.AdminExists && status.ReferenceDataExists && status.ThemePresetsExist
	return status, nil
}

// SeedDefaultAdmin crée le compte administrateur initial
func (s *SeedingService) SeedDefaultAdmin(ctx context.Context) error {
	password := s.config.App.AdminDefaultPassword
	if password == "" {
		if s.config.App.Environment != "development" {
			return fmt.Errorf("ADMIN_DEFAULT_PASSWORD requis hors développement")
		}
		password = devDefaultPassword
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hachage mot de passe admin: %w", err)
	}

	err = s.db.Exec(ctx, authQueries.UserQueries.CreateUser,
		uuid.NewString(),
		adminIdentifiant,
		"Administrateur",
		"Système",
		hash,
		true, // est_admin
		true, // must_change_password
	)
	if err != nil {
		return fmt.Errorf("création compte admin: %w", err)
	}
	return nil
}

// SeedReferenceData insère les données de référence embarquées.
// Les références suivent le format standard, séquencées par entité.
func (s *SeedingService) SeedReferenceData(ctx context.Context) error {
	now := time.Now()
	sequences := make(map[string]int)

	for _, seed := range DefaultReferenceData() {
		d, ok := s.registry.Lookup(seed.Entity)
		if !ok {
			return fmt.Errorf("entité de seeding inconnue: %s", seed.Entity)
		}

		sequences[seed.Entity]++
		record := dto.Record{
			descriptor.KeyReference:   referentielServices.BuildReference(d.Prefix, now, sequences[seed.Entity]),
			descriptor.KeyLibelle:     seed.Libelle,
			descriptor.KeyUtilisateur: seedUtilisateur,
			descriptor.KeyHeure:       now,
		}
		for _, f := range d.Fields {
			record[f.Key] = seed.Fields[f.Key]
		}

		if err := s.store.Insert(ctx, d, record); err != nil {
			return fmt.Errorf("seeding %s %q: %w", seed.Entity, seed.Libelle, err)
		}
	}

	// Les instantanés mis en cache avant le seeding sont caducs
	if s.redis != nil {
		s.redis.InvalidateDomainCache(ctx, "referentiel", "snapshot")
	}
	return nil
}

// SeedThemePresets insère les préréglages de thème embarqués dans MongoDB.
// Idempotent : les préréglages existants sont remplacés.
func (s *SeedingService) SeedThemePresets(ctx context.Context) error {
	coll := s.mongo.Collection(mongodb.ThemePresetCollection)
	opts := options.Replace().SetUpsert(true)

	for _, preset := range themeServices.DefaultPresets() {
		if _, err := coll.ReplaceOne(ctx, bson.M{"_id": preset.Code}, preset, opts); err != nil {
			return fmt.Errorf("seeding préréglage thème %q: %w", preset.Code, err)
		}
	}
	return nil
}

func (s *SeedingService) themePresetsExist(ctx context.Context) bool {
	coll := s.mongo.Collection(mongodb.ThemePresetCollection)
	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		// MongoDB indisponible : on n'insiste pas, les préréglages
		// embarqués servent de repli à la lecture
		return true
	}
	return count > 0
}
