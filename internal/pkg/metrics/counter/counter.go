// Package counter buffers referral visits in a redis hash and periodically
// folds them into billing_referrals.visit_count.
package counter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/BlockHolder/app/models"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

const referralVisitsKey = "referral:counters:visits"

// Counter holds the redis and database handles used for referral visits.
type Counter struct {
	rdb *redis.Client
	db  *gorm.DB
}

func New(rdb *redis.Client, db *gorm.DB) *Counter {
	return &Counter{rdb: rdb, db: db}
}

// AddReferralVisit increments the pending visit counter of a referrer.
func (c *Counter) AddReferralVisit(ctx context.Context, referrerPublicID string) error {
	referrerPublicID = strings.TrimSpace(referrerPublicID)
	if referrerPublicID == "" {
		return nil
	}
	return c.rdb.HIncrBy(ctx, referralVisitsKey, referrerPublicID, 1).Err()
}

// Flush drains the hash and applies the increments.
// RENAME to a temporary key keeps increments that arrive during the flush.
func (c *Counter) Flush(ctx context.Context) error {
	tmpKey := fmt.Sprintf("%s:tmp:%d", referralVisitsKey, time.Now().UnixNano())
	if err := c.rdb.Rename(ctx, referralVisitsKey, tmpKey).Err(); err != nil {
		if isMissingKey(err) {
			return nil
		}
		return err
	}
	defer c.rdb.Del(context.WithoutCancel(ctx), tmpKey)

	data, err := c.rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	visits := parseVisits(data)
	if len(visits) == 0 {
		return nil
	}

	publicIDs := make([]string, 0, len(visits))
	for _, v := range visits {
		publicIDs = append(publicIDs, v.publicID)
	}
	var users []models.User
	if err := c.db.WithContext(ctx).
		Select("id", "public_id").
		Where("public_id IN ?", publicIDs).
		Find(&users).Error; err != nil {
		return err
	}
	rows := referralRows(visits, users)
	if len(rows) == 0 {
		return nil
	}

	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"visit_count": gorm.Expr("visit_count + VALUES(visit_count)"),
		}),
	}).Create(&rows).Error
}

// Run flushes on every tick until ctx is done, then flushes once more.
func (c *Counter) Run(ctx context.Context, interval time.Duration) {
	log := logger.For("referral-counter")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := c.Flush(context.WithoutCancel(ctx)); err != nil {
				log.Error().Err(err).Msg("final referral visit flush failed")
			}
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				log.Error().Err(err).Msg("referral visit flush failed")
			}
		}
	}
}

type visit struct {
	publicID string
	inc      int64
}

// parseVisits drops malformed and zero increments, sorted for stable SQL.
func parseVisits(data map[string]string) []visit {
	visits := make([]visit, 0, len(data))
	for k, v := range data {
		inc, err := strconv.ParseInt(v, 10, 64)
		if err != nil || inc <= 0 || k == "" {
			continue
		}
		visits = append(visits, visit{publicID: k, inc: inc})
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].publicID < visits[j].publicID })
	return visits
}

// referralRows keeps only visits of known users.
func referralRows(visits []visit, users []models.User) []models.BillingReferral {
	ids := make(map[string]uint, len(users))
	for _, u := range users {
		ids[u.PublicID] = u.ID
	}
	rows := make([]models.BillingReferral, 0, len(visits))
	for _, v := range visits {
		userID, ok := ids[v.publicID]
		if !ok {
			continue
		}
		rows = append(rows, models.BillingReferral{UserID: userID, VisitCount: v.inc})
	}
	return rows
}

func isMissingKey(err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such key")
}
