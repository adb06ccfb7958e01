package bootstrap

import (
	"context"
	"fmt"

	"evoluflow-core/internal/infrastructure/database/mongodb"
	"evoluflow-core/internal/infrastructure/database/postgres"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/queries"
)

// DDL des tables hors référentiel. Les tables du référentiel sont
// dérivées des descripteurs du catalogue.
var authSchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS user_utilisateur (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		identifiant TEXT NOT NULL UNIQUE,
		nom TEXT NOT NULL,
		prenoms TEXT,
		password_hash TEXT NOT NULL,
		est_admin BOOLEAN NOT NULL DEFAULT FALSE,
		must_change_password BOOLEAN NOT NULL DEFAULT FALSE,
		statut TEXT NOT NULL DEFAULT 'actif',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS auth_session (
		token TEXT PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES user_utilisateur(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_session_expires ON auth_session(expires_at)`,
}

// SchemaManager crée le schéma de la base au démarrage : tables du
// référentiel dérivées du catalogue, tables d'authentification et
// collections MongoDB du thème. Toutes les opérations sont idempotentes.
type SchemaManager struct {
	txManager         *postgres.TransactionManager
	registry          *descriptor.Registry
	collectionManager *mongodb.CollectionManager
}

// NewSchemaManager crée une nouvelle instance du gestionnaire de schéma
func NewSchemaManager(
	txManager *postgres.TransactionManager,
	registry *descriptor.Registry,
	collectionManager *mongodb.CollectionManager,
) *SchemaManager {
	return &SchemaManager{
		txManager:         txManager,
		registry:          registry,
		collectionManager: collectionManager,
	}
}

// EnsureSchema crée toutes les tables et collections manquantes
func (sm *SchemaManager) EnsureSchema(ctx context.Context) error {
	if err := sm.ensureAuthTables(ctx); err != nil {
		return err
	}
	if err := sm.ensureReferentielTables(ctx); err != nil {
		return err
	}
	sm.ensureThemeCollections(ctx)
	return nil
}

// Le DDL est appliqué dans une transaction : soit tout le schéma
// est en place, soit rien n'a changé.
func (sm *SchemaManager) ensureAuthTables(ctx context.Context) error {
	fmt.Printf("[SCHEMA] Création tables authentification\n")

	return sm.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		for _, ddl := range authSchemaDDL {
			if err := tx.Exec(ctx, ddl); err != nil {
				return fmt.Errorf("création schéma auth: %w", err)
			}
		}
		return nil
	})
}

func (sm *SchemaManager) ensureReferentielTables(ctx context.Context) error {
	descriptors := sm.registry.List()
	fmt.Printf("[SCHEMA] Création tables référentiel (%d entités)\n", len(descriptors))

	return sm.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		for _, d := range descriptors {
			if err := tx.Exec(ctx, queries.CreateTableSQL(d)); err != nil {
				return fmt.Errorf("création table %s: %w", d.TableName(), err)
			}
		}
		return nil
	})
}

// ensureThemeCollections prépare MongoDB, sans bloquer le démarrage
// si MongoDB est indisponible
func (sm *SchemaManager) ensureThemeCollections(ctx context.Context) {
	if err := sm.collectionManager.PrepareThemeCollections(ctx); err != nil {
		fmt.Printf("[SCHEMA] ⚠️  Collections thème non préparées: %v\n", err)
		return
	}
	fmt.Printf("[SCHEMA] ✅ Collections thème prêtes\n")
}
