package bootstrap

import (
	"context"
	"fmt"

	"evoluflow-core/internal/infrastructure/database/seeds"
)

// SeedingManager orchestre le seeding intelligent des données initiales :
// seules les données manquantes sont créées
type SeedingManager struct {
	seedService *seeds.SeedingService
}

// NewSeedingManager crée une nouvelle instance du gestionnaire de seeding
func NewSeedingManager(seedService *seeds.SeedingService) *SeedingManager {
	return &SeedingManager{
		seedService: seedService,
	}
}

// CheckSeedDataExists vérifie quelles données de seeding existent déjà
func (sm *SeedingManager) CheckSeedDataExists(ctx context.Context) (*seeds.SeedDataStatus, error) {
	fmt.Printf("[SEEDING] Vérification données existantes\n")

	status, err := sm.seedService.CheckSeedDataExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("erreur vérification données seeding: %w", err)
	}

	fmt.Printf("[SEEDING] État données: admin=%t, referentiel=%t, presets=%t\n",
		status.AdminExists, status.ReferenceDataExists, status.ThemePresetsExist)

	return status, nil
}

// ApplySeeding applique le seeding selon les données manquantes
func (sm *SeedingManager) ApplySeeding(ctx context.Context, status *seeds.SeedDataStatus) error {
	if status.AllDataExists {
		fmt.Printf("[SEEDING] ✅ Toutes les données initiales sont déjà présentes\n")
		return nil
	}

	fmt.Printf("[SEEDING] 🌱 Application seeding données manquantes\n")

	if !status.AdminExists {
		fmt.Printf("[SEEDING] 👤 Création compte administrateur par défaut\n")
		if err := sm.seedService.SeedDefaultAdmin(ctx); err != nil {
			return fmt.Errorf("échec seeding admin: %w", err)
		}
	}

	if !status.ReferenceDataExists {
		fmt.Printf("[SEEDING] 📋 Création données de référence\n")
		if err := sm.seedService.SeedReferenceData(ctx); err != nil {
			return fmt.Errorf("échec seeding données de référence: %w", err)
		}
	}

	if !status.ThemePresetsExist {
		fmt.Printf("[SEEDING] 🎨 Création préréglages de thème\n")
		if err := sm.seedService.SeedThemePresets(ctx); err != nil {
			// MongoDB optionnel : les préréglages embarqués servent de repli
			fmt.Printf("[SEEDING] ⚠️  Préréglages thème non créés: %v\n", err)
		}
	}

	fmt.Printf("[SEEDING] ✅ Seeding terminé avec succès\n")
	return nil
}
