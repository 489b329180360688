package assemble

// Shape selects how the claims of a field are turned into record items
type Shape int

const (
	ShapePlace Shape = iota
	ShapeImage
	ShapeEvent
	ShapePerson
	ShapeEntity
	ShapeDate
)

func (s Shape) String() string {
	switch s {
	case ShapePlace:
		return "place"
	case ShapeImage:
		return "image"
	case ShapeEvent:
		return "event"
	case ShapePerson:
		return "person"
	case ShapeEntity:
		return "entity"
	case ShapeDate:
		return "date"
	default:
		return "unknown"
	}
}

// FieldSpec names one record field and where its data comes from
type FieldSpec struct {
	Name     string
	Property string
	Shape    Shape
}

// Fields is the record layout, in output order
var Fields = []FieldSpec{
	{Name: "owner", Property: "P127", Shape: ShapePlace},
	{Name: "location", Property: "P276", Shape: ShapePlace},
	{Name: "image", Property: "P18", Shape: ShapeImage},
	{Name: "country_of_origin", Property: "P495", Shape: ShapePlace},
	{Name: "location_of_creation", Property: "P1071", Shape: ShapePlace},
	{Name: "significant_event", Property: "P793", Shape: ShapeEvent},
	{Name: "creator", Property: "P170", Shape: ShapePerson},
	{Name: "movement", Property: "P135", Shape: ShapeEntity},
	{Name: "inception", Property: "P571", Shape: ShapeDate},
}

// Qualifier codes interpreted by the shapers
const (
	qualStartTime          = "P580"
	qualEndTime            = "P582"
	qualPointInTime        = "P585"
	qualCauseOfDestruction = "P770"
	qualBeforehandOwnedBy  = "P1365"
	qualAfterwardOwnedBy   = "P1366"
)
