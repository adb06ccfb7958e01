package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/referentiel/descriptor"
)

// sequencePattern référence le pattern Redis des compteurs mensuels,
// sans TTL propre : l'expiration suit la fin du mois
const sequencePattern = "referentiel_sequence"

// ReferenceGeneratorService produit les références au format
// {PREFIX}{YY}{MM}{NNN} : préfixe d'entité, horodatage année/mois,
// séquence sur trois chiffres. La séquence vit dans Redis (atomique entre
// instances) avec repli sur le balayage de l'instantané courant, et la
// référence produite est toujours désambiguïsée contre cet instantané.
type ReferenceGeneratorService struct {
	redis *redisInfra.Client // nil accepté : repli pur sur l'instantané
}

func NewReferenceGeneratorService(redis *redisInfra.Client) *ReferenceGeneratorService {
	return &ReferenceGeneratorService{redis: redis}
}

// BuildReference formate une référence pour un préfixe, un instant et une séquence
func BuildReference(prefix string, at time.Time, seq int) string {
	return fmt.Sprintf("%s%02d%02d%03d", prefix, at.Year()%100, int(at.Month()), seq)
}

// NextFromExisting retourne la première séquence libre du mois courant
// en balayant les références déjà chargées portant le même préfixe.
func NextFromExisting(prefix string, at time.Time, existing []string) int {
	stamp := fmt.Sprintf("%s%02d%02d", prefix, at.Year()%100, int(at.Month()))

	max := 0
	for _, ref := range existing {
		if !strings.HasPrefix(ref, stamp) {
			continue
		}
		tail := ref[len(stamp):]
		if len(tail) != 3 {
			continue
		}
		if n, err := strconv.Atoi(tail); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// Generate retourne une référence absente de l'instantané fourni
func (s *ReferenceGeneratorService) Generate(ctx context.Context, d descriptor.ResourceDescriptor, existing []string, at time.Time) string {
	seq := NextFromExisting(d.Prefix, at, existing)

	if s.redis != nil {
		if n, err := s.nextFromRedis(ctx, d.Name, at, seq); err == nil {
			seq = n
		}
	}

	taken := make(map[string]bool, len(existing))
	for _, ref := range existing {
		taken[ref] = true
	}

	ref := BuildReference(d.Prefix, at, seq)
	for taken[ref] {
		seq++
		ref = BuildReference(d.Prefix, at, seq)
	}
	return ref
}

// nextFromRedis incrémente la séquence mensuelle partagée. Si Redis est en
// retard sur la table (instantané plus avancé), la séquence est recalée.
func (s *ReferenceGeneratorService) nextFromRedis(ctx context.Context, entity string, at time.Time, floor int) (int, error) {
	stamp := fmt.Sprintf("%02d%02d", at.Year()%100, int(at.Month()))
	key, err := s.redis.GenerateKey(sequencePattern, entity, stamp)
	if err != nil {
		return 0, fmt.Errorf("génération clé séquence: %w", err)
	}

	n, err := s.redis.Client().Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incrément séquence Redis: %w", err)
	}

	if int(n) < floor {
		if err := s.redis.Client().Set(ctx, key, floor, ttlUntilMonthEnd(at)).Err(); err != nil {
			return 0, fmt.Errorf("recalage séquence Redis: %w", err)
		}
		return floor, nil
	}

	// TTL jusqu'à la fin du mois : la séquence repart à 001 au mois suivant
	s.redis.Client().Expire(ctx, key, ttlUntilMonthEnd(at))
	return int(n), nil
}

func ttlUntilMonthEnd(at time.Time) time.Duration {
	endOfMonth := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location()).
		AddDate(0, 1, 0).Add(-time.Second)
	return endOfMonth.Sub(at)
}
