package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"evoluflow-core/internal/app/config"
	"evoluflow-core/internal/infrastructure/database/mongodb"
	pgInfra "evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/infrastructure/database/seeds"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	referentielServices "evoluflow-core/internal/modules/referentiel/services"
)

// BootstrapSystem orchestre le processus de démarrage automatique
// en 3 phases séquentielles : extensions, schéma, seeding
type BootstrapSystem struct {
	extensionManager *ExtensionManager
	schemaManager    *SchemaManager
	seedingManager   *SeedingManager
	timeout          time.Duration
}

// BootstrapResult contient le résultat d'exécution du bootstrap
type BootstrapResult struct {
	Success        bool          `json:"success"`
	TotalDuration  time.Duration `json:"total_duration"`
	PhasesExecuted []PhaseResult `json:"phases_executed"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// PhaseResult contient le résultat d'une phase du bootstrap
type PhaseResult struct {
	Phase       string        `json:"phase"`
	Success     bool          `json:"success"`
	Duration    time.Duration `json:"duration"`
	Description string        `json:"description"`
	Error       string        `json:"error,omitempty"`
}

// NewBootstrapSystem crée une nouvelle instance du système de bootstrap
func NewBootstrapSystem(
	extensionManager *ExtensionManager,
	schemaManager *SchemaManager,
	seedingManager *SeedingManager,
) *BootstrapSystem {
	return &BootstrapSystem{
		extensionManager: extensionManager,
		schemaManager:    schemaManager,
		seedingManager:   seedingManager,
		timeout:          5 * time.Minute,
	}
}

// Execute lance le processus de bootstrap complet avec les 3 phases
func (bs *BootstrapSystem) Execute() (*BootstrapResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), bs.timeout)
	defer cancel()

	fmt.Printf("[BOOTSTRAP] Démarrage BootstrapSystem (timeout: %v)\n", bs.timeout)

	result := &BootstrapResult{
		Success:        true,
		PhasesExecuted: []PhaseResult{},
	}

	phases := []struct {
		name        string
		description string
		run         func(context.Context) error
	}{
		{
			name:        "Phase 0: Extensions PostgreSQL",
			description: "Création extensions uuid-ossp et pg_trgm",
			run:         bs.extensionManager.EnsureRequiredExtensions,
		},
		{
			name:        "Phase 1: Schéma",
			description: "Création tables référentiel/auth et collections thème",
			run:         bs.schemaManager.EnsureSchema,
		},
		{
			name:        "Phase 2: Seeding données",
			description: "Création données initiales (admin, référentiel, thème)",
			run:         bs.executeSeeding,
		},
	}

	for _, phase := range phases {
		phaseResult := bs.executePhase(ctx, phase.name, phase.description, phase.run)
		result.PhasesExecuted = append(result.PhasesExecuted, phaseResult)
		if !phaseResult.Success {
			result.Success = false
			result.ErrorMessage = fmt.Sprintf("%s échouée: %s", phase.name, phaseResult.Error)
			return bs.finalizeResult(result, startTime), fmt.Errorf("bootstrap failed: %s", result.ErrorMessage)
		}
	}

	result = bs.finalizeResult(result, startTime)
	fmt.Printf("[BOOTSTRAP] ✅ BootstrapSystem terminé avec succès en %v\n", result.TotalDuration)
	fmt.Printf("[BOOTSTRAP] 🎯 Application prête pour démarrage serveur HTTP\n")

	return result, nil
}

func (bs *BootstrapSystem) executePhase(ctx context.Context, phase, description string, run func(context.Context) error) PhaseResult {
	startTime := time.Now()
	fmt.Printf("[BOOTSTRAP] 🔧 Démarrage %s\n", phase)

	err := run(ctx)
	duration := time.Since(startTime)

	if err != nil {
		fmt.Printf("[BOOTSTRAP] ❌ %s échouée en %v: %v\n", phase, duration, err)
		return PhaseResult{
			Phase:       phase,
			Success:     false,
			Duration:    duration,
			Description: description,
			Error:       err.Error(),
		}
	}

	fmt.Printf("[BOOTSTRAP] ✅ %s terminée en %v\n", phase, duration)
	return PhaseResult{
		Phase:       phase,
		Success:     true,
		Duration:    duration,
		Description: description,
	}
}

func (bs *BootstrapSystem) executeSeeding(ctx context.Context) error {
	status, err := bs.seedingManager.CheckSeedDataExists(ctx)
	if err != nil {
		return err
	}
	return bs.seedingManager.ApplySeeding(ctx, status)
}

// finalizeResult finalise le résultat avec la durée totale
func (bs *BootstrapSystem) finalizeResult(result *BootstrapResult, startTime time.Time) *BootstrapResult {
	result.TotalDuration = time.Since(startTime)
	return result
}

// GetTimeout retourne le timeout configuré
func (bs *BootstrapSystem) GetTimeout() time.Duration {
	return bs.timeout
}

// SetTimeout configure un nouveau timeout (utile pour les tests)
func (bs *BootstrapSystem) SetTimeout(timeout time.Duration) {
	bs.timeout = timeout
}

// Providers Fx pour le système de bootstrap

// NewBootstrapExtensionManager provider pour le gestionnaire d'extensions
func NewBootstrapExtensionManager(pgClient *pgInfra.Client) *ExtensionManager {
	return NewExtensionManager(pgClient)
}

// NewBootstrapSchemaManager provider pour le gestionnaire de schéma
func NewBootstrapSchemaManager(
	txManager *pgInfra.TransactionManager,
	registry *descriptor.Registry,
	collectionManager *mongodb.CollectionManager,
) *SchemaManager {
	return NewSchemaManager(txManager, registry, collectionManager)
}

// NewBootstrapSeedingService provider pour le service de seeding
func NewBootstrapSeedingService(
	pgClient *pgInfra.Client,
	mongoClient *mongodb.Client,
	redisClient *redisInfra.Client,
	registry *descriptor.Registry,
	store referentielServices.ResourceStore,
	cfg *config.Config,
) *seeds.SeedingService {
	return seeds.NewSeedingService(pgClient, mongoClient, redisClient, registry, store, cfg)
}

// NewBootstrapSeedingManager provider pour le gestionnaire de seeding
func NewBootstrapSeedingManager(seedService *seeds.SeedingService) *SeedingManager {
	return NewSeedingManager(seedService)
}

// RegisterBootstrapLifecycle enregistre le système de bootstrap dans le cycle de vie Fx
func RegisterBootstrapLifecycle(
	lc fx.Lifecycle,
	bootstrap *BootstrapSystem,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fmt.Printf("[LIFECYCLE] 🚀 Démarrage BootstrapSystem AVANT serveur HTTP\n")

			result, err := bootstrap.Execute()
			if err != nil {
				fmt.Printf("[LIFECYCLE] ❌ Bootstrap échoué: %v\n", err)
				return fmt.Errorf("bootstrap system failed: %w", err)
			}

			fmt.Printf("[LIFECYCLE] ✅ Bootstrap terminé en %v\n", result.TotalDuration)
			fmt.Printf("[LIFECYCLE] 🎯 Système prêt pour démarrage serveur HTTP\n")

			return nil
		},
		OnStop: func(ctx context.Context) error {
			fmt.Printf("[LIFECYCLE] 🛑 Arrêt BootstrapSystem\n")
			return nil
		},
	})
}
