package models

// Category tags partition a facility's documents into independent logical
// trees. The set is closed; docs.Categories holds the definition table
// (root label, upload ceiling, MIME allow-list) for each tag.
type Category string

const (
	CategoryContract            Category = "contract"
	CategoryDrawing             Category = "drawing"
	CategoryMaintenanceInterior Category = "maintenance-interior"
	CategoryMaintenanceExterior Category = "maintenance-exterior"
	CategoryLifelineElectrical  Category = "lifeline-electrical"
	CategoryLifelineWater       Category = "lifeline-water"
	CategoryLifelineGas         Category = "lifeline-gas"
	CategoryLifelineElevator    Category = "lifeline-elevator"
	CategoryLifelineHVAC        Category = "lifeline-hvac"
)

func (c Category) String() string {
	return string(c)
}
