// Package sim defines the typed commands that carry every externally
// triggered mutation into the simulation. UI clicks, keyboard input, and the
// story provider's completion all become commands; the hub drains them at
// frame start so the world only ever has one writer.
package sim

import "time"

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandMove             CommandType = "Move"
	CommandHeartbeat        CommandType = "Heartbeat"
	CommandSelectRegion     CommandType = "SelectRegion"
	CommandSetAppearance    CommandType = "SetAppearance"
	CommandConfirmCharacter CommandType = "ConfirmCharacter"
	CommandInteractBuilding CommandType = "InteractBuilding"
	CommandInteractNPC      CommandType = "InteractNPC"
	CommandExitScene        CommandType = "ExitScene"
	CommandAdoptPet         CommandType = "AdoptPet"
	CommandHoldPet          CommandType = "HoldPet"
	CommandRentVehicle      CommandType = "RentVehicle"
	CommandBuildVehicle     CommandType = "BuildVehicle"
	CommandStartPatrol      CommandType = "StartPatrol"
	CommandToggleDrive      CommandType = "ToggleDrive"
	CommandWashVehicle      CommandType = "WashVehicle"
	CommandBuyFurniture     CommandType = "BuyFurniture"
	CommandRecruitStore     CommandType = "RecruitStore"
	CommandSelectJob        CommandType = "SelectJob"
	CommandAcquireRoyal     CommandType = "AcquireRoyal"
	CommandSummonFriend     CommandType = "SummonFriend"
	CommandDismissFriend    CommandType = "DismissFriend"
	CommandVisitFriend      CommandType = "VisitFriend"
	CommandStartWork        CommandType = "StartWork"
	CommandSleep            CommandType = "Sleep"
	CommandStoryResult      CommandType = "StoryResult"
)

// MoveCommand carries the desired planar movement vector from the keyboard.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

// HeartbeatCommand updates connectivity metadata for the session.
type HeartbeatCommand struct {
	SessionID  string    `json:"sessionId"`
	ReceivedAt time.Time `json:"receivedAt"`
	ClientSent int64     `json:"clientSent"`
}

// RegionCommand selects a region at the start of a run.
type RegionCommand struct {
	Region string `json:"region"`
}

// AppearanceCommand overwrites the avatar's cosmetic record. The payload is
// opaque JSON decoded by the world so sim stays independent of state.
type AppearanceCommand struct {
	Appearance []byte `json:"-"`
}

// TargetCommand identifies a building, NPC, pet, friend, or vehicle by id.
// Which it is follows from the command type.
type TargetCommand struct {
	ID string `json:"id"`
}

// PetOrderCommand configures a sanctuary adoption.
type PetOrderCommand struct {
	Type          string `json:"type"`
	Breed         string `json:"breed"`
	CollarColor   string `json:"collarColor,omitempty"`
	ClothingColor string `json:"clothingColor,omitempty"`
	HasClothing   bool   `json:"hasClothing"`
	ShoeColor     string `json:"shoeColor,omitempty"`
	HasShoes      bool   `json:"hasShoes"`
}

// VehicleOrderCommand configures a rental, factory build, or patrol issue.
type VehicleOrderCommand struct {
	Style string `json:"style"`
	Color string `json:"color"`
}

// FurnitureCommand buys one home-catalog item.
type FurnitureCommand struct {
	ItemID string `json:"itemId"`
}

// JobCommand selects one of the two jobs.
type JobCommand struct {
	Job string `json:"job"`
}

// StoryCommand delivers the flavor-text provider's (possibly fallback)
// result back into the reducer pipeline.
type StoryCommand struct {
	Text string `json:"text"`
}

// Command represents an intent captured for processing on the next frame.
type Command struct {
	OriginTick uint64               `json:"originTick"`
	Type       CommandType          `json:"type"`
	IssuedAt   time.Time            `json:"issuedAt"`
	Move       *MoveCommand         `json:"move,omitempty"`
	Heartbeat  *HeartbeatCommand    `json:"heartbeat,omitempty"`
	Region     *RegionCommand       `json:"region,omitempty"`
	Appearance *AppearanceCommand   `json:"appearance,omitempty"`
	Target     *TargetCommand       `json:"target,omitempty"`
	Pet        *PetOrderCommand     `json:"pet,omitempty"`
	Vehicle    *VehicleOrderCommand `json:"vehicle,omitempty"`
	Furniture  *FurnitureCommand    `json:"furniture,omitempty"`
	Job        *JobCommand          `json:"job,omitempty"`
	Story      *StoryCommand        `json:"story,omitempty"`
}
