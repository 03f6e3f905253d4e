package state

// HairStyle, clothing, and eyebrow enums mirror the customizer options. They
// are cosmetic; the engine never branches on them.
type HairStyle string

const (
	HairPonytail HairStyle = "ponytail"
	HairBob      HairStyle = "bob"
	HairLong     HairStyle = "long"
	HairBuns     HairStyle = "buns"
)

type ClothingTop string

const (
	TopTShirt ClothingTop = "tshirt"
	TopJacket ClothingTop = "jacket"
)

type ClothingBottom string

const (
	BottomSkirt      ClothingBottom = "skirt"
	BottomShorts     ClothingBottom = "shorts"
	BottomPantsLong  ClothingBottom = "pants_long"
	BottomPantsShort ClothingBottom = "pants_short"
)

type EyebrowStyle string

const (
	BrowsArched EyebrowStyle = "arched"
	BrowsFlat   EyebrowStyle = "flat"
	BrowsRound  EyebrowStyle = "round"
)

// Appearance is the fixed-shape cosmetic record shared by the player avatar
// and generated human NPCs. Colors are CSS hex strings chosen by the client.
type Appearance struct {
	HairStyle    HairStyle      `json:"hairStyle"`
	HairColor    string         `json:"hairColor"`
	SkinColor    string         `json:"skinColor"`
	EyeColor     string         `json:"eyeColor"`
	EyebrowStyle EyebrowStyle   `json:"eyebrowStyle"`
	LipColor     string         `json:"lipColor"`
	TopType      ClothingTop    `json:"topType"`
	TopColor     string         `json:"topColor"`
	BottomType   ClothingBottom `json:"bottomType"`
	BottomColor  string         `json:"bottomColor"`
	SockColor    string         `json:"sockColor"`
	ShoeColor    string         `json:"shoeColor"`
	HasNecklace  bool           `json:"hasNecklace"`
	HasEarrings  bool           `json:"hasEarrings"`
	HasBracelets bool           `json:"hasBracelets"`
	HasRing      bool           `json:"hasRing"`
}

// DefaultAppearance returns the customizer's starting configuration.
func DefaultAppearance() Appearance {
	return Appearance{
		HairStyle:    HairPonytail,
		HairColor:    "#5d4037",
		SkinColor:    "#ffdbac",
		EyeColor:     "#3b82f6",
		EyebrowStyle: BrowsArched,
		LipColor:     "#fca5a5",
		TopType:      TopTShirt,
		TopColor:     "#ec4899",
		BottomType:   BottomSkirt,
		BottomColor:  "#f472b6",
		SockColor:    "#ffffff",
		ShoeColor:    "#1f2937",
	}
}
