// Package cache holds the Redis-backed read caches.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"makhraj/backend/models"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey = "leaderboard:xp"
	leaderboardTTL = 10 * time.Minute
)

// ErrLeaderboardEmpty is returned when no leaderboard is cached.
var ErrLeaderboardEmpty = errors.New("cache: leaderboard is empty")

// Leaderboard keeps the XP ranking in a Redis sorted set so the hot
// read path never hits Postgres.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// Rebuild replaces the cached ranking with the given entries.
func (l *Leaderboard) Rebuild(ctx context.Context, entries []models.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{
			Score:  float64(e.XP),
			Member: memberKey(e.UserID, e.Username),
		})
	}

	pipe := l.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	pipe.ZAdd(ctx, leaderboardKey, members...)
	pipe.Expire(ctx, leaderboardKey, leaderboardTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns up to limit entries ordered by XP descending.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return nil, ErrLeaderboardEmpty
	}

	entries := make([]models.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		userID, username := parseMember(member)
		entries = append(entries, models.LeaderboardEntry{
			UserID:   userID,
			Username: username,
			XP:       int(z.Score),
			Rank:     i + 1,
		})
	}
	return entries, nil
}

// SetScore updates one user's XP in place, keeping the cache warm between
// rebuilds. A missing key is fine: the next read falls back and rebuilds.
func (l *Leaderboard) SetScore(ctx context.Context, userID uint, username string, xp int) error {
	return l.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: memberKey(userID, username),
	}).Err()
}

// The member encodes id and name together; ids are unique, names are for
// display only.
func memberKey(userID uint, username string) string {
	return fmt.Sprintf("%d:%s", userID, username)
}

func parseMember(member string) (uint, string) {
	for i := 0; i < len(member); i++ {
		if member[i] == ':' {
			id, _ := strconv.ParseUint(member[:i], 10, 64)
			return uint(id), member[i+1:]
		}
	}
	id, _ := strconv.ParseUint(member, 10, 64)
	return uint(id), ""
}
