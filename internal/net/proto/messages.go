// Package proto defines the websocket wire format and its mapping onto
// simulation commands. Decoding is tolerant: unknown fields are ignored and
// unknown message types are reported, never fatal.
package proto

import (
	"encoding/json"

	"crownridge/server/internal/sim"
)

// Client message type identifiers.
const (
	TypeInput            = "input"
	TypeHeartbeat        = "heartbeat"
	TypeSelectRegion     = "selectRegion"
	TypeSetAppearance    = "setAppearance"
	TypeConfirmCharacter = "confirmCharacter"
	TypeInteractBuilding = "interactBuilding"
	TypeInteractNPC      = "interactNpc"
	TypeExitScene        = "exitScene"
	TypeAdoptPet         = "adoptPet"
	TypeHoldPet          = "holdPet"
	TypeRentVehicle      = "rentVehicle"
	TypeBuildVehicle     = "buildVehicle"
	TypeStartPatrol      = "startPatrol"
	TypeToggleDrive      = "toggleDrive"
	TypeWashVehicle      = "washVehicle"
	TypeBuyFurniture     = "buyFurniture"
	TypeRecruitStore     = "recruitStore"
	TypeSelectJob        = "selectJob"
	TypeAcquireRoyal     = "acquireRoyal"
	TypeSummonFriend     = "summonFriend"
	TypeDismissFriend    = "dismissFriend"
	TypeVisitFriend      = "visitFriend"
	TypeStartWork        = "startWork"
	TypeSleep            = "sleep"
)

// ClientMessage is the superset envelope for every inbound payload. Which
// fields matter follows from Type.
type ClientMessage struct {
	Ver  int    `json:"ver,omitempty"`
	Type string `json:"type"`

	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`

	ID     string `json:"id,omitempty"`
	Region string `json:"region,omitempty"`

	Appearance json.RawMessage `json:"appearance,omitempty"`

	PetType       string `json:"petType,omitempty"`
	Breed         string `json:"breed,omitempty"`
	CollarColor   string `json:"collarColor,omitempty"`
	ClothingColor string `json:"clothingColor,omitempty"`
	HasClothing   bool   `json:"hasClothing,omitempty"`
	ShoeColor     string `json:"shoeColor,omitempty"`
	HasShoes      bool   `json:"hasShoes,omitempty"`

	Style string `json:"style,omitempty"`
	Color string `json:"color,omitempty"`

	ItemID string `json:"itemId,omitempty"`
	Job    string `json:"job,omitempty"`

	SentAt int64 `json:"sentAt,omitempty"`
}

// ClientCommand maps a decoded message onto a simulation command. Reports
// false for message types that do not stage commands (or are unknown).
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	switch msg.Type {
	case TypeInput:
		return sim.Command{Type: sim.CommandMove, Move: &sim.MoveCommand{DX: msg.DX, DZ: msg.DZ}}, true
	case TypeSelectRegion:
		return sim.Command{Type: sim.CommandSelectRegion, Region: &sim.RegionCommand{Region: msg.Region}}, true
	case TypeSetAppearance:
		if len(msg.Appearance) == 0 {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandSetAppearance, Appearance: &sim.AppearanceCommand{Appearance: msg.Appearance}}, true
	case TypeConfirmCharacter:
		return sim.Command{Type: sim.CommandConfirmCharacter}, true
	case TypeInteractBuilding:
		return targetCommand(sim.CommandInteractBuilding, msg.ID)
	case TypeInteractNPC:
		return targetCommand(sim.CommandInteractNPC, msg.ID)
	case TypeExitScene:
		return sim.Command{Type: sim.CommandExitScene}, true
	case TypeAdoptPet:
		return sim.Command{Type: sim.CommandAdoptPet, Pet: &sim.PetOrderCommand{
			Type:          msg.PetType,
			Breed:         msg.Breed,
			CollarColor:   msg.CollarColor,
			ClothingColor: msg.ClothingColor,
			HasClothing:   msg.HasClothing,
			ShoeColor:     msg.ShoeColor,
			HasShoes:      msg.HasShoes,
		}}, true
	case TypeHoldPet:
		return targetCommand(sim.CommandHoldPet, msg.ID)
	case TypeRentVehicle:
		return vehicleCommand(sim.CommandRentVehicle, msg)
	case TypeBuildVehicle:
		return vehicleCommand(sim.CommandBuildVehicle, msg)
	case TypeStartPatrol:
		return vehicleCommand(sim.CommandStartPatrol, msg)
	case TypeToggleDrive:
		return targetCommand(sim.CommandToggleDrive, msg.ID)
	case TypeWashVehicle:
		return sim.Command{Type: sim.CommandWashVehicle}, true
	case TypeBuyFurniture:
		if msg.ItemID == "" {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandBuyFurniture, Furniture: &sim.FurnitureCommand{ItemID: msg.ItemID}}, true
	case TypeRecruitStore:
		return targetCommand(sim.CommandRecruitStore, msg.ID)
	case TypeSelectJob:
		if msg.Job == "" {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandSelectJob, Job: &sim.JobCommand{Job: msg.Job}}, true
	case TypeAcquireRoyal:
		return sim.Command{Type: sim.CommandAcquireRoyal}, true
	case TypeSummonFriend:
		return targetCommand(sim.CommandSummonFriend, msg.ID)
	case TypeDismissFriend:
		return sim.Command{Type: sim.CommandDismissFriend}, true
	case TypeVisitFriend:
		return targetCommand(sim.CommandVisitFriend, msg.ID)
	case TypeStartWork:
		return targetCommand(sim.CommandStartWork, msg.ID)
	case TypeSleep:
		return sim.Command{Type: sim.CommandSleep}, true
	default:
		return sim.Command{}, false
	}
}

func targetCommand(kind sim.CommandType, id string) (sim.Command, bool) {
	if id == "" {
		return sim.Command{}, false
	}
	return sim.Command{Type: kind, Target: &sim.TargetCommand{ID: id}}, true
}

func vehicleCommand(kind sim.CommandType, msg ClientMessage) (sim.Command, bool) {
	if msg.Style == "" {
		return sim.Command{}, false
	}
	return sim.Command{Type: kind, Vehicle: &sim.VehicleOrderCommand{Style: msg.Style, Color: msg.Color}}, true
}
