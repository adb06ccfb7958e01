package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ThemePresetCollection   = "theme_preset"
	ThemeOverrideCollection = "theme_override"
)

type CollectionManager struct {
	client *Client
}

func NewCollectionManager(client *Client) *CollectionManager {
	return &CollectionManager{client: client}
}

// PrepareThemeCollections crée les collections de personnalisation visuelle
// avec leurs validateurs. Idempotent : les collections existantes sont conservées.
func (cm *CollectionManager) PrepareThemeCollections(ctx context.Context) error {
	if err := cm.createThemePresetCollection(ctx); err != nil {
		return err
	}
	return cm.createThemeOverrideCollection(ctx)
}

func (cm *CollectionManager) createThemePresetCollection(ctx context.Context) error {
	exists, err := cm.CollectionExists(ctx, ThemePresetCollection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Schéma de validation des palettes proposées par défaut
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "libelle", "palette"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType":    "string",
					"description": "Code du préréglage (ex: clair, sombre)",
				},
				"libelle": bson.M{
					"bsonType":    "string",
					"description": "Nom affiché du préréglage",
				},
				"palette": bson.M{
					"bsonType":    "object",
					"description": "Palette de couleurs du préréglage",
				},
			},
		},
	}

	opts := options.CreateCollection().SetValidator(validator)
	if err := cm.client.CreateCollection(ctx, ThemePresetCollection, opts); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", ThemePresetCollection, err)
	}
	return nil
}

func (cm *CollectionManager) createThemeOverrideCollection(ctx context.Context) error {
	exists, err := cm.CollectionExists(ctx, ThemeOverrideCollection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Une surcharge par utilisateur, _id = identifiant utilisateur
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "palette"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType":    "string",
					"description": "ID de l'utilisateur",
				},
				"palette": bson.M{
					"bsonType":    "object",
					"description": "Surcharges de palette de l'utilisateur",
				},
				"updated_at": bson.M{
					"bsonType":    "date",
					"description": "Date de dernière modification",
				},
			},
		},
	}

	opts := options.CreateCollection().SetValidator(validator)
	if err := cm.client.CreateCollection(ctx, ThemeOverrideCollection, opts); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", ThemeOverrideCollection, err)
	}
	return nil
}

func (cm *CollectionManager) CollectionExists(ctx context.Context, name string) (bool, error) {
	collections, err := cm.client.ListCollectionNames(ctx)
	if err != nil {
		return false, err
	}

	for _, coll := range collections {
		if coll == name {
			return true, nil
		}
	}
	return false, nil
}
