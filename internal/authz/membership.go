package authz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
)

const membershipKeyPrefix = "team:members:"

// MembershipResolver is the only place team membership is computed.
// Every "is this person on my team" check goes through IsMember.
type MembershipResolver struct {
	teams  repository.TeamRepository
	users  repository.UserRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewMembershipResolver builds a resolver. cache may be nil, in which
// case every lookup hits the store.
func NewMembershipResolver(teams repository.TeamRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *MembershipResolver {
	return &MembershipResolver{teams: teams, users: users, cache: cache, ttl: ttl, logger: logger}
}

// IsMember reports whether userID belongs to the team managed by
// managerID. A missing manager team or missing user is false, not an
// error, so callers deny identically for absent and foreign users.
func (r *MembershipResolver) IsMember(ctx context.Context, managerID, userID string) (bool, error) {
	ids, err := r.memberIDs(ctx, managerID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the users on the team managed by managerID, empty
// when the manager leads no team. Always reads the store; the cache
// only backs the hot IsMember path.
func (r *MembershipResolver) Members(ctx context.Context, managerID string) ([]domain.User, error) {
	team, err := r.teams.GetByManager(ctx, managerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.users.ListByTeamID(ctx, team.ID)
}

// Invalidate drops the cached roster for a manager. Called after any
// team mutation so decisions see the caller's own writes.
func (r *MembershipResolver) Invalidate(ctx context.Context, managerID string) {
	if r.cache == nil || managerID == "" {
		return
	}
	if err := r.cache.Del(ctx, membershipKeyPrefix+managerID).Err(); err != nil {
		r.logger.Warn("membership cache invalidation failed", zap.String("manager_id", managerID), zap.Error(err))
	}
}

func (r *MembershipResolver) memberIDs(ctx context.Context, managerID string) ([]string, error) {
	if ids, ok := r.fromCache(ctx, managerID); ok {
		return ids, nil
	}

	members, err := r.Members(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	r.toCache(ctx, managerID, ids)
	return ids, nil
}

func (r *MembershipResolver) fromCache(ctx context.Context, managerID string) ([]string, bool) {
	if r.cache == nil || r.ttl <= 0 {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, membershipKeyPrefix+managerID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("membership cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (r *MembershipResolver) toCache(ctx context.Context, managerID string, ids []string) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, membershipKeyPrefix+managerID, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("membership cache write failed", zap.Error(err))
	}
}
