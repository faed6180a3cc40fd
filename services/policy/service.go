package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	policyRepo "bookline/database/repository/policy"
	"bookline/models"
	"bookline/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service is the establishment configuration collaborator: it serves the
// per-establishment scheduling knobs with a Redis cache in front of Mongo.
type Service interface {
	PolicyFor(establishmentID string) (models.EstablishmentPolicy, error)
	SetPolicy(policy models.EstablishmentPolicy) error
}

// DefaultPolicyService implements Service.
type DefaultPolicyService struct {
	Repo  policyRepo.PolicyRepository
	Cache *redis.Client // optional; nil disables caching
	TTL   time.Duration
}

func (s *DefaultPolicyService) cacheKey(establishmentID string) string {
	return fmt.Sprintf("policy:%s", establishmentID)
}

// PolicyFor returns the stored policy, or the documented defaults when the
// establishment has configured nothing.
func (s *DefaultPolicyService) PolicyFor(establishmentID string) (models.EstablishmentPolicy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, s.cacheKey(establishmentID)).Result(); err == nil {
			var policy models.EstablishmentPolicy
			if err := json.Unmarshal([]byte(raw), &policy); err == nil {
				return policy, nil
			}
		}
	}

	stored, err := s.Repo.Get(establishmentID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrNotFound) {
			return models.DefaultPolicy(establishmentID), nil
		}
		return models.EstablishmentPolicy{}, err
	}
	s.cachePolicy(ctx, *stored)
	return *stored, nil
}

// SetPolicy persists the policy and drops the cached copy.
func (s *DefaultPolicyService) SetPolicy(policy models.EstablishmentPolicy) error {
	if policy.SlotGranularityMin <= 0 {
		policy.SlotGranularityMin = models.DefaultSlotGranularityMin
	}
	if policy.MinLeadTimeMin < 0 {
		policy.MinLeadTimeMin = models.DefaultMinLeadTimeMin
	}
	if err := s.Repo.Upsert(&policy); err != nil {
		return err
	}
	if s.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Cache.Del(ctx, s.cacheKey(policy.EstablishmentID)).Err(); err != nil {
			utils.GetLogger().Warn("failed to drop cached policy",
				zap.String("establishmentID", policy.EstablishmentID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultPolicyService) cachePolicy(ctx context.Context, policy models.EstablishmentPolicy) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, s.cacheKey(policy.EstablishmentID), raw, s.TTL).Err(); err != nil {
		utils.GetLogger().Debug("failed to cache policy", zap.Error(err))
	}
}
