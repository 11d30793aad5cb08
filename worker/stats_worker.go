package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
)

// StatsWorker periodically recomputes the cached campaign aggregates and
// LinkedIn message counters from the live rows. The write paths refresh
// stats inline; this worker reconciles anything they missed.
type StatsWorker struct {
	DB        *gorm.DB
	Campaigns *store.CampaignStore
	Accounts  *store.LinkedInStore
	Messages  *store.MessageStore
	Interval  time.Duration
	Logger    *logrus.Logger
}

func NewStatsWorker(db *gorm.DB, interval time.Duration, logger *logrus.Logger) *StatsWorker {
	return &StatsWorker{
		DB:        db,
		Campaigns: store.NewCampaignStore(db),
		Accounts:  store.NewLinkedInStore(db),
		Messages:  store.NewMessageStore(db),
		Interval:  interval,
		Logger:    logger,
	}
}

func (sw *StatsWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	sw.Logger.Info("Stats worker started")

	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.Logger.Info("Stats worker shutting down...")
			return
		case <-ticker.C:
			sw.reconcileCampaigns()
			sw.reconcileLinkedInAccounts()
		}
	}
}

func (sw *StatsWorker) reconcileCampaigns() {
	var ids []uint
	if err := sw.DB.Model(&models.Campaign{}).Pluck("id", &ids).Error; err != nil {
		sw.Logger.WithError(err).Error("failed to list campaigns for reconciliation")
		return
	}

	for _, id := range ids {
		if _, err := sw.Campaigns.RecomputeStats(id); err != nil {
			sw.Logger.WithError(err).WithField("campaign_id", id).
				Error("failed to recompute campaign stats")
		}
	}
}

// reconcileLinkedInAccounts refreshes each account's messages_sent counter
// from the owner's outbound message rows.
func (sw *StatsWorker) reconcileLinkedInAccounts() {
	var accounts []models.LinkedInAccount
	if err := sw.DB.Find(&accounts).Error; err != nil {
		sw.Logger.WithError(err).Error("failed to list linkedin accounts for reconciliation")
		return
	}

	for _, account := range accounts {
		var sent int64
		err := sw.DB.Model(&models.Message{}).
			Where("user_id = ? AND type = ?", account.UserID, models.MessageTypeOutbound).
			Count(&sent).Error
		if err != nil {
			sw.Logger.WithError(err).WithField("account_id", account.ID).
				Error("failed to count outbound messages")
			continue
		}

		sentInt := int(sent)
		if sentInt == account.MessagesSent {
			continue
		}
		update := store.LinkedInStatsUpdate{MessagesSent: &sentInt}
		if _, err := sw.Accounts.UpdateStats(account.ID, update); err != nil {
			sw.Logger.WithError(err).WithField("account_id", account.ID).
				Error("failed to update account counters")
		}
	}
}
