package state

// PetType enumerates the adoptable species.
type PetType string

const (
	PetCat  PetType = "cat"
	PetDog  PetType = "dog"
	PetBird PetType = "bird"
)

// PetAccessories are the sanctuary's dress-up options. Shoes only apply to
// cats and dogs; the customizer never offers them for birds.
type PetAccessories struct {
	CollarColor   string `json:"collarColor,omitempty"`
	ClothingColor string `json:"clothingColor,omitempty"`
	HasClothing   bool   `json:"hasClothing"`
	ShoeColor     string `json:"shoeColor,omitempty"`
	HasShoes      bool   `json:"hasShoes"`
}

// Pet is an adopted companion. Held is a transient carry state, mutually
// exclusive with following the player around.
type Pet struct {
	ID          string         `json:"id"`
	Type        PetType        `json:"type"`
	Name        string         `json:"name"`
	Breed       string         `json:"breed"`
	Accessories PetAccessories `json:"accessories"`
	Held        bool           `json:"held"`
}
