package room

import "fmt"

type Type string

const (
	TypeLibraryTheater  Type = "library_theater"
	TypeAulaFull        Type = "aula_full"
	TypeAulaHalf        Type = "aula_half"
	TypeSocialInclusion Type = "social_inclusion"
	TypeMeetingRoom     Type = "meeting_room"
	TypeLibraryTour     Type = "library_tour"
	TypeOutdoorStage    Type = "outdoor_stage"
)

// TypeInfo carries the defaults a new room of that type is seeded with.
type TypeInfo struct {
	Type              Type
	Name              string
	Description       string
	DefaultCapacity   int
	DefaultFacilities []string
}

var typeInfos = []TypeInfo{
	{
		Type:              TypeLibraryTheater,
		Name:              "Library Theater",
		Description:       "Theater room for performances, seminars and cultural events",
		DefaultCapacity:   200,
		DefaultFacilities: []string{"Full stage", "Sound system", "Lighting system", "Projector", "AC", "Theater seating", "Green room"},
	},
	{
		Type:              TypeAulaFull,
		Name:              "Main Hall (Full)",
		Description:       "Main library hall at full capacity",
		DefaultCapacity:   500,
		DefaultFacilities: []string{"Large stage", "Professional sound system", "Full lighting", "HD projector", "Central AC", "Auditorium seating", "VIP area", "Catering area"},
	},
	{
		Type:              TypeAulaHalf,
		Name:              "Main Hall (Half)",
		Description:       "Half of the main hall for medium-sized events",
		DefaultCapacity:   250,
		DefaultFacilities: []string{"Medium stage", "Sound system", "Lighting", "Projector", "AC", "Auditorium seating"},
	},
	{
		Type:              TypeSocialInclusion,
		Name:              "Social Inclusion Room",
		Description:       "Accessible room for community and inclusion activities",
		DefaultCapacity:   50,
		DefaultFacilities: []string{"Flexible seating", "Projector", "AC", "Whiteboard", "Wheelchair access"},
	},
	{
		Type:              TypeMeetingRoom,
		Name:              "Meeting Room",
		Description:       "Meeting room for discussions and small workshops",
		DefaultCapacity:   20,
		DefaultFacilities: []string{"Meeting table", "Smart TV", "Whiteboard", "AC", "WiFi"},
	},
	{
		Type:              TypeLibraryTour,
		Name:              "Library Tour",
		Description:       "Guided tour of the library collections and facilities",
		DefaultCapacity:   30,
		DefaultFacilities: []string{"Tour guide", "Portable microphone", "Information booklet"},
	},
	{
		Type:              TypeOutdoorStage,
		Name:              "Outdoor Stage",
		Description:       "Open-air stage for festivals and outdoor performances",
		DefaultCapacity:   300,
		DefaultFacilities: []string{"Outdoor stage", "Outdoor sound system", "Canopy", "Power supply"},
	},
}

func ParseType(s string) (Type, error) {
	for _, ti := range typeInfos {
		if string(ti.Type) == s {
			return ti.Type, nil
		}
	}
	return "", fmt.Errorf("unknown room type: %s", s)
}

// Types returns the known room types in display order.
func Types() []TypeInfo {
	out := make([]TypeInfo, len(typeInfos))
	copy(out, typeInfos)
	return out
}
