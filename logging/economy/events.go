package economy

import (
	"context"

	"crownridge/server/logging"
)

const (
	// EventPurchase is emitted when a validated transaction debits the player.
	EventPurchase logging.EventType = "economy.purchase"
	// EventPurchaseFailed is emitted when a transaction precondition fails.
	EventPurchaseFailed logging.EventType = "economy.purchase_failed"
	// EventRentCharged is emitted at the 07:00 billing crossing.
	EventRentCharged logging.EventType = "economy.rent_charged"
	// EventCaptureReward is emitted when a job capture credits the player.
	EventCaptureReward logging.EventType = "economy.capture_reward"
	// EventWorkCompleted is emitted when a work shift pays out.
	EventWorkCompleted logging.EventType = "economy.work_completed"
)

// PurchasePayload describes a successful debit.
type PurchasePayload struct {
	Item     string `json:"item"`
	Money    int    `json:"money,omitempty"`
	Parts    int    `json:"parts,omitempty"`
	Balance  int    `json:"balance"`
	PartsNow int    `json:"partsNow,omitempty"`
}

// PurchaseFailedPayload describes why a transaction was rejected.
type PurchaseFailedPayload struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
	Needed int    `json:"needed,omitempty"`
}

// RentChargedPayload describes a rent billing.
type RentChargedPayload struct {
	Houses  int `json:"houses"`
	Amount  int `json:"amount"`
	Balance int `json:"balance"`
	Day     int `json:"day"`
}

// CaptureRewardPayload describes a capture payout.
type CaptureRewardPayload struct {
	Job     string `json:"job"`
	Reward  int    `json:"reward"`
	Balance int    `json:"balance"`
}

// WorkCompletedPayload describes a finished shift.
type WorkCompletedPayload struct {
	Parts    int `json:"parts"`
	PartsNow int `json:"partsNow"`
}

// Purchase publishes a successful purchase event.
func Purchase(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PurchasePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPurchase,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// PurchaseFailed publishes a rejected transaction event.
func PurchaseFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PurchaseFailedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPurchaseFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// RentCharged publishes a rent billing event.
func RentCharged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RentChargedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventRentCharged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// CaptureReward publishes a capture payout event.
func CaptureReward(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload CaptureRewardPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventCaptureReward,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// WorkCompleted publishes a shift payout event.
func WorkCompleted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload WorkCompletedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventWorkCompleted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
