package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"evoluflow-core/internal/infrastructure/database/mongodb"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/theme/dto"
)

// overrideCachePattern référence le pattern Redis qui porte la convention
// de nommage et le TTL du cache des surcharges
const overrideCachePattern = "theme_overrides"

type themeOverrideDocument struct {
	UserID    string           `bson:"_id"`
	Palette   dto.ThemePalette `bson:"palette"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// NewThemeService assemble le service sur les stores MongoDB,
// avec le cache Redis des surcharges
func NewThemeService(mongoClient *mongodb.Client, redisClient *redisInfra.Client) *ThemeService {
	return NewThemeServiceWithStores(
		&mongoOverrideStore{mongo: mongoClient, redis: redisClient},
		&mongoPresetStore{mongo: mongoClient},
	)
}

// mongoOverrideStore persiste les surcharges par utilisateur dans MongoDB,
// avec un cache Redis en lecture. Les erreurs de cache sont silencieuses.
type mongoOverrideStore struct {
	mongo *mongodb.Client
	redis *redisInfra.Client
}

func (s *mongoOverrideStore) Get(ctx context.Context, userID string) (dto.ThemePalette, bool, error) {
	if s.redis != nil {
		if payload, err := s.redis.GetWithPattern(ctx, overrideCachePattern, userID); err == nil && payload != "" {
			var cached dto.ThemePalette
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	var doc themeOverrideDocument
	coll := s.mongo.Collection(mongodb.ThemeOverrideCollection)
	err := coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return dto.ThemePalette{}, false, nil
	}
	if err != nil {
		return dto.ThemePalette{}, false, fmt.Errorf("erreur lecture surcharges thème: %w", err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(doc.Palette); err == nil {
			s.redis.SetWithPattern(ctx, overrideCachePattern, string(payload), userID)
		}
	}

	return doc.Palette, true, nil
}

func (s *mongoOverrideStore) Save(ctx context.Context, userID string, palette dto.ThemePalette) error {
	doc := themeOverrideDocument{
		UserID:    userID,
		Palette:   palette,
		UpdatedAt: time.Now(),
	}

	coll := s.mongo.Collection(mongodb.ThemeOverrideCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": userID}, doc, opts); err != nil {
		return fmt.Errorf("erreur sauvegarde surcharges thème: %w", err)
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *mongoOverrideStore) Delete(ctx context.Context, userID string) error {
	coll := s.mongo.Collection(mongodb.ThemeOverrideCollection)
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("erreur suppression surcharges thème: %w", err)
	}

	s.invalidateCache(ctx, userID)
	return nil
}

func (s *mongoOverrideStore) invalidateCache(ctx context.Context, userID string) {
	if s.redis != nil {
		s.redis.DelWithPattern(ctx, overrideCachePattern, userID)
	}
}

// mongoPresetStore lit les préréglages depuis MongoDB
type mongoPresetStore struct {
	mongo *mongodb.Client
}

func (s *mongoPresetStore) List(ctx context.Context) ([]dto.ThemePreset, error) {
	coll := s.mongo.Collection(mongodb.ThemePresetCollection)

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("erreur lecture préréglages: %w", err)
	}
	defer cursor.Close(ctx)

	var presets []dto.ThemePreset
	if err := cursor.All(ctx, &presets); err != nil {
		return nil, fmt.Errorf("erreur décodage préréglages: %w", err)
	}
	return presets, nil
}
