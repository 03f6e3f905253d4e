package server

import (
	"context"
	"fmt"
	"time"

	"crownridge/server/internal/state"
	"crownridge/server/logging/economy"
	"crownridge/server/logging/simulation"
)

// advanceClock applies one coarse clock tick. The rules run in a fixed
// order: work completion first (on the un-wrapped value, so weekend-speed
// ticks cannot jump past the end of a shift), then the day rollover, then
// rent billing. Ticks are skipped entirely while the clock is suspended.
func (w *World) advanceClock(ctx context.Context) {
	if w.clockSuspended() {
		return
	}

	step := timeStepMinutes
	if w.working {
		step = workingStepMinutes
	}

	prev := w.timeOfDay
	unwrapped := prev + step
	next := unwrapped % minutesPerDay

	if w.working && prev < workEndMinutes && unwrapped >= workEndMinutes {
		w.completeWork(ctx)
		return
	}

	if next < prev {
		w.rollDay(ctx)
	}

	if !w.rentPaidToday && prev < rentHourMinutes && next >= rentHourMinutes {
		w.chargeRent(ctx)
	}

	w.timeOfDay = next
}

// completeWork ends a shift: time snaps to exactly 14:00, parts are paid,
// and the avatar reappears at the vent outside the factory district.
func (w *World) completeWork(ctx context.Context) {
	w.timeOfDay = workEndMinutes
	w.working = false
	w.parts += workPartsReward

	if w.layout != nil {
		w.player.Position = w.layout.Spawns.Vent
	}
	w.setMessage(fmt.Sprintf("Work finished! Earned %d car parts.", workPartsReward), state.MoodExcited)

	economy.WorkCompleted(ctx, w.publisher, w.frame, w.playerRef(), economy.WorkCompletedPayload{
		Parts:    workPartsReward,
		PartsNow: w.parts,
	})
}

// rollDay advances the calendar and re-arms rent billing. Reaching the
// checkout day ends the run.
func (w *World) rollDay(ctx context.Context) {
	w.dayCount++
	w.rentPaidToday = false

	simulation.DayRollover(ctx, w.publisher, w.frame, simulation.DayRolloverPayload{Day: w.dayCount})

	if w.dayCount >= checkoutDay {
		w.freezeClock(ctx)
	}
}

// chargeRent bills every owned house at most once per day. The crossing is
// consumed even when the player owns nothing, so a purchase later the same
// day is not billed retroactively.
func (w *World) chargeRent(ctx context.Context) {
	w.rentPaidToday = true

	rent := rentPerHouse * len(w.ownedHouseIDs)
	if rent == 0 {
		return
	}

	w.money -= rent
	if w.money < 0 {
		w.money = 0
	}

	mood := state.MoodDiscomfort
	if w.money < lowMoneyMood {
		mood = state.MoodLackConfidence
	}
	w.setMessage(fmt.Sprintf("Rent paid: $%d for %d house(s).", rent, len(w.ownedHouseIDs)), mood)

	economy.RentCharged(ctx, w.publisher, w.frame, w.playerRef(), economy.RentChargedPayload{
		Houses:  len(w.ownedHouseIDs),
		Amount:  rent,
		Balance: w.money,
		Day:     w.dayCount,
	})
}

// freezeClock permanently stops the simulation at the checkout deadline.
func (w *World) freezeClock(ctx context.Context) {
	if w.frozen {
		return
	}
	w.frozen = true
	simulation.ClockFrozen(ctx, w.publisher, w.frame, simulation.ClockFrozenPayload{Day: w.dayCount})
	w.setPhase(ctx, PhaseGameOver)
	w.setMessage("Checkout day has arrived. Your stay at the hotel is over.", state.MoodDiscomfort)
}

// sleep skips three simulated hours from the home scene. It applies only the
// rollover rule: a wrap increments the day and re-arms rent, but the 07:00
// crossing itself does not bill. Rent is a waking-hours concern.
func (w *World) sleep(ctx context.Context) {
	if w.phase != PhaseHomeView {
		return
	}

	next := w.timeOfDay + sleepSkipMinutes
	if next >= minutesPerDay {
		next -= minutesPerDay
		w.rollDay(ctx)
	}
	w.timeOfDay = next
	// Sleeping into checkout day keeps the game-over message.
	if w.frozen {
		return
	}
	w.setMessage("You feel refreshed after a good rest.", state.MoodExcited)
}

// nextClockInterval reports the delay until the next coarse tick. Working
// time runs at the fast montage cadence.
func (w *World) nextClockInterval() time.Duration {
	if w.working {
		return workingClockInterval
	}
	return clockInterval
}
