package state

// BuildingKind enumerates every tile occupant the generator can place.
type BuildingKind string

const (
	BuildingHouseL1       BuildingKind = "house_l1"
	BuildingHouseL2       BuildingKind = "house_l2"
	BuildingHouseL3       BuildingKind = "house_l3"
	BuildingHotel         BuildingKind = "hotel"
	BuildingPetSanctuary  BuildingKind = "pet_sanctuary"
	BuildingRoad          BuildingKind = "road"
	BuildingStore         BuildingKind = "store"
	BuildingPetCemetery   BuildingKind = "pet_cemetery"
	BuildingCarRental     BuildingKind = "car_rental"
	BuildingCarWash       BuildingKind = "car_wash"
	BuildingCarFactory    BuildingKind = "car_factory"
	BuildingSTStation     BuildingKind = "st_station"
	BuildingMSStation     BuildingKind = "ms_station"
	BuildingRoyalCarriage BuildingKind = "royal_carriage"
)

// Lot carries the fields that only exist on purchasable lots (houses and
// stores). Roads, stations, and the other special tiles have no Lot, which
// keeps prices and occupancy off the kinds they never apply to.
type Lot struct {
	Price      int    `json:"price"`
	Occupied   bool   `json:"occupied"`
	OccupantID string `json:"occupantId,omitempty"`
}

// Building is an immutable world tile placed once at generation time. The
// only post-generation mutation is Lot.OccupantID, linked when the NPC roster
// is matched to occupied houses. Player ownership is not a Building field;
// it lives in the world's owned-house set.
type Building struct {
	ID       string       `json:"id"`
	Kind     BuildingKind `json:"kind"`
	Position Vec3         `json:"position"`
	Rotation float64      `json:"rotation"`
	Lot      *Lot         `json:"lot,omitempty"`
}

// IsHouse reports whether the building is one of the three house tiers.
func (b *Building) IsHouse() bool {
	switch b.Kind {
	case BuildingHouseL1, BuildingHouseL2, BuildingHouseL3:
		return true
	default:
		return false
	}
}

// Purchasable reports whether the building can be bought by the player.
func (b *Building) Purchasable() bool {
	return b.Lot != nil
}

// Clone returns a deep copy safe to hand to snapshot readers.
func (b *Building) Clone() Building {
	cloned := *b
	if b.Lot != nil {
		lot := *b.Lot
		cloned.Lot = &lot
	}
	return cloned
}
