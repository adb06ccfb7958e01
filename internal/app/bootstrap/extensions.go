package bootstrap

import (
	"context"
	"fmt"

	"evoluflow-core/internal/infrastructure/database/postgres"
)

// ExtensionManager gère la création des extensions PostgreSQL requises
// Extensions supportées : uuid-ossp et pg_trgm
type ExtensionManager struct {
	pgClient *postgres.Client
}

// NewExtensionManager crée une nouvelle instance du gestionnaire d'extensions
func NewExtensionManager(pgClient *postgres.Client) *ExtensionManager {
	return &ExtensionManager{
		pgClient: pgClient,
	}
}

// EnsureRequiredExtensions crée toutes les extensions requises
func (em *ExtensionManager) EnsureRequiredExtensions(ctx context.Context) error {
	fmt.Printf("[EXTENSIONS] Création des extensions PostgreSQL requises\n")

	if err := em.ensureExtension(ctx, "uuid-ossp"); err != nil {
		return fmt.Errorf("failed to ensure uuid-ossp extension: %w", err)
	}

	if err := em.ensureExtension(ctx, "pg_trgm"); err != nil {
		return fmt.Errorf("failed to ensure pg_trgm extension: %w", err)
	}

	fmt.Printf("[EXTENSIONS] ✅ Toutes les extensions requises sont installées\n")
	return nil
}

// ensureExtension crée une extension PostgreSQL spécifique si elle n'existe pas
func (em *ExtensionManager) ensureExtension(ctx context.Context, extensionName string) error {
	exists, err := em.checkExtensionExists(ctx, extensionName)
	if err != nil {
		return fmt.Errorf("failed to check extension %s: %w", extensionName, err)
	}

	if exists {
		fmt.Printf("[EXTENSIONS] ✅ Extension %s déjà installée\n", extensionName)
		return nil
	}

	fmt.Printf("[EXTENSIONS] 🔧 Création extension %s...\n", extensionName)

	query := fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS "%s"`, extensionName)
	_, err = em.pgClient.Pool().Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create extension %s: %w", extensionName, err)
	}

	fmt.Printf("[EXTENSIONS] ✅ Extension %s créée avec succès\n", extensionName)
	return nil
}

// checkExtensionExists vérifie si une extension PostgreSQL existe
func (em *ExtensionManager) checkExtensionExists(ctx context.Context, extensionName string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM pg_extension
			WHERE extname = $1
		)
	`

	var exists bool
	err := em.pgClient.Pool().QueryRow(ctx, query, extensionName).Scan(&exists)
	return exists, err
}
