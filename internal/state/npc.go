package state

// TargetCategory marks a human NPC as a capture target for one of the two
// jobs. It is assigned at spawn and never changes; the two categories are
// mutually exclusive by construction.
type TargetCategory string

const (
	TargetNone     TargetCategory = "none"
	TargetShort    TargetCategory = "short"    // ST job target
	TargetPrisoner TargetCategory = "prisoner" // MS job target
)

// CarriedItem is a cosmetic prop some generated humans walk around with.
type CarriedItem string

const (
	CarryNothing CarriedItem = ""
	CarryBox     CarriedItem = "box"
	CarryBag     CarriedItem = "bag"
)

// HumanTraits holds the fields that only exist on human NPCs.
type HumanTraits struct {
	Appearance     Appearance     `json:"appearance"`
	Carrying       CarriedItem    `json:"carrying,omitempty"`
	Target         TargetCategory `json:"target"`
	HomeBuildingID string         `json:"homeBuildingId,omitempty"`
}

// DogTraits holds the fields that only exist on dog NPCs. A dog can never be
// a capture target because the flag simply does not exist here.
type DogTraits struct {
	Breed string `json:"breed"`
}

// NPC is a roster entry. Exactly one of Human or Dog is set; the pair acts as
// the tagged variant for the two NPC categories.
type NPC struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position Vec3         `json:"position"`
	Rotation float64      `json:"rotation"`
	IsFriend bool         `json:"isFriend"`
	Human    *HumanTraits `json:"human,omitempty"`
	Dog      *DogTraits   `json:"dog,omitempty"`
}

// IsHuman reports whether the entry is a human NPC.
func (n *NPC) IsHuman() bool { return n.Human != nil }

// Target returns the capture category, TargetNone for dogs.
func (n *NPC) Target() TargetCategory {
	if n.Human == nil {
		return TargetNone
	}
	return n.Human.Target
}

// Befriendable reports whether the NPC may be added to the friend list.
// Capture targets are never befriendable.
func (n *NPC) Befriendable() bool {
	return n.Target() == TargetNone
}

// Clone returns a deep copy safe to hand to snapshot readers.
func (n *NPC) Clone() NPC {
	cloned := *n
	if n.Human != nil {
		human := *n.Human
		cloned.Human = &human
	}
	if n.Dog != nil {
		dog := *n.Dog
		cloned.Dog = &dog
	}
	return cloned
}

// NPCState wraps the wire-visible NPC with the behavior engine's working
// memory. The wander target is regenerated whenever the NPC arrives, so it is
// not part of any snapshot.
type NPCState struct {
	NPC
	WanderTarget Vec3
	HasTarget    bool
}

// Snapshot returns the wire-visible portion of the NPC.
func (s *NPCState) Snapshot() NPC {
	return s.NPC.Clone()
}
