package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crownridge/server/internal/sim"
	"crownridge/server/internal/state"
	"crownridge/server/logging"
	"crownridge/server/logging/economy"
)

// furnitureItem is one entry of the home furnishing catalog.
type furnitureItem struct {
	Name  string
	Price int
}

var furnitureCatalog = map[string]furnitureItem{
	"sofa":      {Name: "Sofa", Price: 40},
	"table":     {Name: "Dining Table", Price: 25},
	"lamp":      {Name: "Floor Lamp", Price: 15},
	"bed":       {Name: "Bed", Price: 60},
	"rug":       {Name: "Rug", Price: 20},
	"tv":        {Name: "Television", Price: 80},
	"bookshelf": {Name: "Bookshelf", Price: 35},
	"plant":     {Name: "Potted Plant", Price: 10},
}

// FurniturePrice reports the catalog price for an item id, if it exists.
func FurniturePrice(itemID string) (int, bool) {
	item, ok := furnitureCatalog[itemID]
	if !ok {
		return 0, false
	}
	return item.Price, true
}

func petPrice(t state.PetType) (int, bool) {
	switch t {
	case state.PetCat:
		return petPriceCat, true
	case state.PetDog:
		return petPriceDog, true
	case state.PetBird:
		return petPriceBird, true
	default:
		return 0, false
	}
}

// rejectPurchase records a failed precondition without mutating anything
// else. Every transaction failure surfaces to the player the same way.
func (w *World) rejectPurchase(ctx context.Context, item, reason string, needed int, mood state.Mood, message string) {
	w.setMessage(message, mood)
	economy.PurchaseFailed(ctx, w.publisher, w.frame, w.playerRef(), economy.PurchaseFailedPayload{
		Item:   item,
		Reason: reason,
		Needed: needed,
	})
}

// debit validates and applies a money purchase in one step, publishing on
// success. Returns false and leaves the world unchanged when unaffordable.
func (w *World) debit(ctx context.Context, item string, price int) bool {
	if w.money < price {
		w.rejectPurchase(ctx, item, "insufficient_money", price, state.MoodLackConfidence,
			fmt.Sprintf("Not enough money! You need $%d.", price))
		return false
	}
	w.money -= price
	economy.Purchase(ctx, w.publisher, w.frame, w.playerRef(), economy.PurchasePayload{
		Item:    item,
		Money:   price,
		Balance: w.money,
	})
	return true
}

// debitParts is the parts-currency counterpart of debit.
func (w *World) debitParts(ctx context.Context, item string, price int) bool {
	if w.parts < price {
		w.rejectPurchase(ctx, item, "insufficient_parts", price, state.MoodEmbarrassed,
			fmt.Sprintf("Not enough car parts! You need %d.", price))
		return false
	}
	w.parts -= price
	economy.Purchase(ctx, w.publisher, w.frame, w.playerRef(), economy.PurchasePayload{
		Item:     item,
		Parts:    price,
		PartsNow: w.parts,
	})
	return true
}

// interactBuilding is the contextual city-scene interaction: the affordance
// depends on the building kind and the current ownership and job state.
func (w *World) interactBuilding(ctx context.Context, id string) (hotelStory bool) {
	if w.phase != PhasePlaying || w.working {
		return false
	}
	b := w.findBuilding(id)
	if b == nil || !w.nearBuilding(b) {
		return false
	}

	switch {
	case b.Kind == state.BuildingHotel:
		w.setMessage("Listening to the hotel owner...", state.MoodFocused)
		return true
	case b.IsHouse() && w.ownsBuilding(b.ID):
		w.enterHome(ctx, b)
	case b.Purchasable() && !w.ownsBuilding(b.ID):
		w.buyBuilding(ctx, b)
	case b.Kind == state.BuildingSTStation, b.Kind == state.BuildingMSStation, b.Kind == state.BuildingRoyalCarriage:
		w.enterStation(ctx, b)
	case b.Kind == state.BuildingCarWash:
		w.washVehicle(ctx)
	case b.Kind == state.BuildingPetSanctuary:
		w.setMessage("The sanctuary is full of animals looking for a home.", state.MoodExcited)
	case b.Kind == state.BuildingCarRental:
		w.setMessage("Rent a car here for $50 a ride.", state.MoodFocused)
	case b.Kind == state.BuildingCarFactory:
		w.setMessage("Bring 80 car parts and build your own ride.", state.MoodFocused)
	case b.Kind == state.BuildingPetCemetery:
		w.setMessage("A quiet place. You pay your respects.", state.MoodSleepy)
	}
	return false
}

// buyBuilding purchases a house or store lot. Stores unlock recruiting and
// work shifts; houses add to the daily rent bill.
func (w *World) buyBuilding(ctx context.Context, b *state.Building) {
	if b.Lot == nil {
		return
	}
	if !w.debit(ctx, string(b.Kind), b.Lot.Price) {
		return
	}
	w.ownedHouseIDs = append(w.ownedHouseIDs, b.ID)
	if b.Kind == state.BuildingStore {
		w.setMessage("You bought the store! Time to hire some staff.", state.MoodExcited)
	} else {
		w.setMessage(fmt.Sprintf("You bought a house for $%d!", b.Lot.Price), state.MoodExcited)
	}
}

// adoptPet buys a companion from the sanctuary customizer.
func (w *World) adoptPet(ctx context.Context, order sim.PetOrderCommand) {
	if w.phase != PhasePlaying {
		return
	}
	petType := state.PetType(order.Type)
	price, ok := petPrice(petType)
	if !ok {
		return
	}
	if !w.debit(ctx, "pet_"+order.Type, price) {
		return
	}

	accessories := state.PetAccessories{
		CollarColor:   order.CollarColor,
		ClothingColor: order.ClothingColor,
		HasClothing:   order.HasClothing,
	}
	if petType != state.PetBird {
		accessories.ShoeColor = order.ShoeColor
		accessories.HasShoes = order.HasShoes
	}
	pet := &state.Pet{
		ID:          uuid.NewString(),
		Type:        petType,
		Name:        petName(petType),
		Breed:       order.Breed,
		Accessories: accessories,
	}
	w.pets = append(w.pets, pet)
	w.setMessage(fmt.Sprintf("You adopted %s!", pet.Name), state.MoodExcited)
}

func petName(t state.PetType) string {
	switch t {
	case state.PetCat:
		return "Whiskers"
	case state.PetDog:
		return "Buddy"
	default:
		return "Tweety"
	}
}

// holdPet toggles carrying a pet.
func (w *World) holdPet(petID string) {
	for _, pet := range w.pets {
		if pet.ID != petID {
			continue
		}
		pet.Held = !pet.Held
		if pet.Held {
			w.setMessage(fmt.Sprintf("Holding %s.", pet.Name), state.MoodExcited)
		} else {
			w.setMessage(fmt.Sprintf("%s hops down.", pet.Name), state.MoodFocused)
		}
		return
	}
}

// rentVehicle buys a car at the rental lot for money.
func (w *World) rentVehicle(ctx context.Context, order sim.VehicleOrderCommand) {
	if w.phase != PhasePlaying {
		return
	}
	style, ok := state.ParseVehicleStyle(order.Style)
	if !ok || style == state.VehicleGoldenCarriage {
		return
	}
	if !w.debit(ctx, "vehicle_rental", carRentalCost) {
		return
	}
	w.addVehicle(style, order.Color, false, true)
	w.setMessage("Enjoy your new ride!", state.MoodExcited)
}

// buildVehicle buys a car at the factory for parts.
func (w *World) buildVehicle(ctx context.Context, order sim.VehicleOrderCommand) {
	if w.phase != PhasePlaying {
		return
	}
	style, ok := state.ParseVehicleStyle(order.Style)
	if !ok || style == state.VehicleGoldenCarriage {
		return
	}
	if !w.debitParts(ctx, "vehicle_build", carBuildParts) {
		return
	}
	w.addVehicle(style, order.Color, false, true)
	w.setMessage("Fresh off the assembly line!", state.MoodExcited)
}

// addVehicle appends a vehicle to the garage. Only the paid purchases open
// the cart view; patrol issues and the royal unlock leave it closed.
func (w *World) addVehicle(style state.VehicleStyle, color string, mission, openCart bool) *state.Vehicle {
	w.vehicles = append(w.vehicles, state.Vehicle{
		ID:      uuid.NewString(),
		Style:   style,
		Color:   color,
		Mission: mission,
	})
	w.cartOpen = openCart
	return &w.vehicles[len(w.vehicles)-1]
}

// startPatrol issues a mission vehicle from inside a job station and drops
// the player back into the city already driving it.
func (w *World) startPatrol(ctx context.Context, order sim.VehicleOrderCommand) {
	if w.phase != PhaseSTStation && w.phase != PhaseMSStation {
		return
	}
	style, ok := state.ParseVehicleStyle(order.Style)
	if !ok || style == state.VehicleGoldenCarriage {
		style = state.VehicleSedan
	}
	from := w.phase

	vehicle := w.addVehicle(style, order.Color, true, false)
	w.activeVehicleID = vehicle.ID

	spawn := state.Vec3{}
	if w.layout != nil {
		if from == PhaseSTStation {
			spawn = w.layout.Spawns.STStation.Add(exitOffset)
		} else {
			spawn = w.layout.Spawns.MSStation.Add(exitOffset)
		}
	}
	w.player.Position = spawn
	w.setPhase(ctx, PhasePlaying)
	w.setMessage("Patrol started. Find your target.", state.MoodFocused)
}

// toggleDrive gets in or out of an owned vehicle.
func (w *World) toggleDrive(vehicleID string) {
	vehicle := w.findVehicle(vehicleID)
	if vehicle == nil {
		return
	}
	w.cartOpen = false
	if w.activeVehicleID == vehicle.ID {
		w.activeVehicleID = ""
		w.setMessage("Car parked.", state.MoodFocused)
		return
	}
	w.activeVehicleID = vehicle.ID
	w.setMessage(fmt.Sprintf("Driving the %s.", vehicle.Style), state.MoodExcited)
}

// washVehicle starts a timed wash for the active vehicle.
func (w *World) washVehicle(ctx context.Context) {
	if w.phase != PhasePlaying {
		return
	}
	if w.activeVehicle() == nil {
		w.setMessage("Drive a car up to the wash first.", state.MoodEmbarrassed)
		return
	}
	if !w.debit(ctx, "car_wash", carWashCost) {
		return
	}
	w.washingUntil = w.now().Add(washDuration)
	w.setMessage("Washing the car...", state.MoodFocused)
}

// buyFurniture purchases a catalog item for the home interior. Each item can
// be owned once.
func (w *World) buyFurniture(ctx context.Context, itemID string) {
	if w.phase != PhaseHomeView {
		return
	}
	item, ok := furnitureCatalog[itemID]
	if !ok {
		return
	}
	if w.ownsFurniture(itemID) {
		w.setMessage(fmt.Sprintf("You already own a %s.", item.Name), state.MoodBored)
		return
	}
	if !w.debit(ctx, "furniture_"+itemID, item.Price) {
		return
	}
	w.furniture = append(w.furniture, itemID)
	w.setMessage(fmt.Sprintf("The %s looks great in here!", item.Name), state.MoodExcited)
}

// recruitStore hires a worker for an owned store. Free, but the store must
// be owned and nearby.
func (w *World) recruitStore(id string) {
	if w.phase != PhasePlaying {
		return
	}
	b := w.findBuilding(id)
	if b == nil || b.Kind != state.BuildingStore || !w.ownsBuilding(id) || !w.nearBuilding(b) {
		return
	}
	if w.recruited(id) {
		w.setMessage("This store already has staff.", state.MoodBored)
		return
	}
	w.recruitedIDs = append(w.recruitedIDs, id)
	w.setMessage("A new worker joins your store!", state.MoodExcited)
}

// selectJob picks one of the two covert jobs. Switching is free and only
// changes which station admits the player and which targets pay.
func (w *World) selectJob(job string) {
	if w.phase != PhasePlaying {
		return
	}
	switch JobType(job) {
	case JobST:
		w.currentJob = JobST
		w.setMessage("You joined the ST agency. Shorties beware.", state.MoodFocused)
	case JobMS:
		w.currentJob = JobMS
		w.setMessage("You joined the MS agency. Watch for black uniforms.", state.MoodFocused)
	}
}

// acquireRoyal unlocks the golden carriage from the royal chamber. The
// carriage is free, flagged, and attracts jail detection while driven.
func (w *World) acquireRoyal(ctx context.Context) {
	if w.phase != PhaseRoyalChamber || w.hasRoyalSystem {
		return
	}
	w.hasRoyalSystem = true
	vehicle := w.addVehicle(state.VehicleGoldenCarriage, "#ffd700", false, false)
	economy.Purchase(ctx, w.publisher, w.frame, w.playerRef(), economy.PurchasePayload{
		Item:    string(vehicle.Style),
		Balance: w.money,
	})
	w.setMessage("The golden carriage is yours. Ride it at your own risk.", state.MoodTriggered)
}

// interactNPC resolves a click on a roster NPC: capture when the job,
// mission vehicle, and target category line up, befriend otherwise.
func (w *World) interactNPC(ctx context.Context, id string) {
	if w.phase != PhasePlaying {
		return
	}
	npc, index := w.findNPC(id)
	if npc == nil {
		return
	}

	if w.tryCapture(ctx, npc, index) {
		return
	}
	w.befriend(npc)
}

// tryCapture removes a matching target from the roster and pays the job
// reward. A capture needs an active mission vehicle and the matching job.
func (w *World) tryCapture(ctx context.Context, npc *state.NPCState, index int) bool {
	vehicle := w.activeVehicle()
	if vehicle == nil || !vehicle.Mission {
		return false
	}

	var reward int
	switch {
	case w.currentJob == JobST && npc.Target() == state.TargetShort:
		reward = captureRewardST
		w.capturedCount++
	case w.currentJob == JobMS && npc.Target() == state.TargetPrisoner:
		reward = captureRewardMS
		w.prisonerCount++
	default:
		return false
	}

	w.money += reward
	w.npcs = append(w.npcs[:index], w.npcs[index+1:]...)
	w.setMessage(fmt.Sprintf("Target secured! +$%d", reward), state.MoodExcited)

	economy.CaptureReward(ctx, w.publisher, w.frame, w.playerRef(),
		logging.EntityRef{ID: npc.ID, Kind: logging.EntityKindNPC},
		economy.CaptureRewardPayload{
			Job:     string(w.currentJob),
			Reward:  reward,
			Balance: w.money,
		})
	return true
}

// befriend adds an ordinary NPC to the friends list. Capture targets and
// existing friends are skipped.
func (w *World) befriend(npc *state.NPCState) {
	if !npc.Befriendable() || npc.IsFriend {
		return
	}
	npc.IsFriend = true
	w.friends = append(w.friends, npc.Snapshot())
	w.setMessage(fmt.Sprintf("%s is now your friend!", npc.Name), state.MoodExcited)
}

// summonFriend asks a friend to follow the player around the city.
func (w *World) summonFriend(id string) {
	friend := w.findFriend(id)
	if friend == nil {
		return
	}
	w.followingFriend = id
	w.setMessage(fmt.Sprintf("%s is coming along.", friend.Name), state.MoodExcited)
}

// dismissFriend stops the current follower.
func (w *World) dismissFriend() {
	if w.followingFriend == "" {
		return
	}
	w.followingFriend = ""
	w.setMessage("See you around!", state.MoodFocused)
}

// startWork begins a shift at an owned store. Shifts only start before the
// 14:00 end-of-day cutoff; the clock takes over from here.
func (w *World) startWork(id string) {
	if w.phase != PhasePlaying || w.working {
		return
	}
	b := w.findBuilding(id)
	if b == nil || b.Kind != state.BuildingStore || !w.ownsBuilding(id) || !w.nearBuilding(b) {
		return
	}
	if w.timeOfDay >= workEndMinutes {
		w.setMessage("The store is closed for the day. Come back tomorrow.", state.MoodBored)
		return
	}
	w.working = true
	w.setMessage("Working hard at the store...", state.MoodFocused)
}

// applyStoryResult surfaces flavor text delivered by the story provider and
// opens the timed story overlay.
func (w *World) applyStoryResult(text string) {
	if text == "" {
		return
	}
	w.message = text
	w.mood = state.MoodFocused
	w.storyMode = true
	w.storyModeExpires = w.now().Add(storyModeTimeout)
}

// expireTimers clears the wash and story overlays once their deadlines pass.
// Called every frame by the hub.
func (w *World) expireTimers(now time.Time) {
	if !w.washingUntil.IsZero() && now.After(w.washingUntil) {
		w.washingUntil = time.Time{}
		w.setMessage("Sparkling clean!", state.MoodExcited)
	}
	if w.storyMode && now.After(w.storyModeExpires) {
		w.storyMode = false
	}
}
