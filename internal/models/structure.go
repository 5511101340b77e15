// internal/models/structure.go
package models

// ActStructure is one labeled narrative phase of a structure template,
// covering [Start, End] percent of total duration. Templates are read-only
// during a session; the engine accepts ranges as given and does not validate
// gaps or overlaps.
type ActStructure struct {
	Name        string  `json:"name"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
}

// StructureType selects one ordered list of acts.
type StructureType string

const (
	StructureThreeAct     StructureType = "3-act"
	StructureAristotelian StructureType = "aristotelian"
	StructureHerosJourney StructureType = "heros-journey"
	StructureFourAct      StructureType = "4-act"
	StructureSaveTheCat   StructureType = "save-the-cat"
	StructureFreytag      StructureType = "freytag"
	StructureStoryCircle  StructureType = "story-circle"
)

// StructureTypes lists the built-in templates in presentation order.
var StructureTypes = []StructureType{
	StructureThreeAct,
	StructureAristotelian,
	StructureHerosJourney,
	StructureFourAct,
	StructureSaveTheCat,
	StructureFreytag,
	StructureStoryCircle,
}

// BuiltinStructures holds the act templates shipped with the application.
var BuiltinStructures = map[StructureType][]ActStructure{
	StructureThreeAct: {
		{Name: "Setup", Start: 0, End: 25, Color: "bg-blue-500", Description: "Introduce characters and world"},
		{Name: "Confrontation", Start: 25, End: 75, Color: "bg-amber-500", Description: "Develop conflict and tension"},
		{Name: "Resolution", Start: 75, End: 100, Color: "bg-green-500", Description: "Resolve conflict and conclude"},
	},
	StructureAristotelian: {
		{Name: "Setup", Start: 0, End: 15, Color: "bg-blue-500", Description: "Establish world and characters"},
		{Name: "Inciting Incident", Start: 15, End: 25, Color: "bg-purple-500", Description: "Event that starts the story"},
		{Name: "Rising Action", Start: 25, End: 50, Color: "bg-yellow-500", Description: "Build tension and complications"},
		{Name: "Midpoint", Start: 50, End: 60, Color: "bg-orange-500", Description: "Major revelation or turning point"},
		{Name: "Crisis", Start: 60, End: 80, Color: "bg-red-500", Description: "Highest tension, all seems lost"},
		{Name: "Climax", Start: 80, End: 90, Color: "bg-pink-500", Description: "Final confrontation"},
		{Name: "Resolution", Start: 90, End: 100, Color: "bg-green-500", Description: "Loose ends tied up"},
	},
	StructureHerosJourney: {
		{Name: "Ordinary World", Start: 0, End: 8, Color: "bg-gray-500", Description: "Normal life before adventure"},
		{Name: "Call to Adventure", Start: 8, End: 15, Color: "bg-blue-500", Description: "Challenge presented"},
		{Name: "Refusal & Mentor", Start: 15, End: 25, Color: "bg-purple-500", Description: "Hesitation and guidance"},
		{Name: "Crossing Threshold", Start: 25, End: 35, Color: "bg-indigo-500", Description: "Commit to journey"},
		{Name: "Tests & Allies", Start: 35, End: 50, Color: "bg-cyan-500", Description: "Face challenges, build team"},
		{Name: "Approach & Ordeal", Start: 50, End: 65, Color: "bg-orange-500", Description: "Prepare for and face biggest fear"},
		{Name: "Reward", Start: 65, End: 75, Color: "bg-yellow-500", Description: "Gain knowledge or prize"},
		{Name: "Road Back", Start: 75, End: 85, Color: "bg-red-500", Description: "Return with new wisdom"},
		{Name: "Resurrection", Start: 85, End: 95, Color: "bg-pink-500", Description: "Final test and transformation"},
		{Name: "Return", Start: 95, End: 100, Color: "bg-green-500", Description: "Share wisdom with world"},
	},
	StructureFourAct: {
		{Name: "Setup", Start: 0, End: 25, Color: "bg-blue-500", Description: "Introduce world and conflict"},
		{Name: "Response", Start: 25, End: 50, Color: "bg-purple-500", Description: "React to challenges"},
		{Name: "Attack", Start: 50, End: 75, Color: "bg-orange-500", Description: "Take action, face obstacles"},
		{Name: "Resolution", Start: 75, End: 100, Color: "bg-green-500", Description: "Resolve and conclude"},
	},
	StructureSaveTheCat: {
		{Name: "Opening Image", Start: 0, End: 5, Color: "bg-gray-500", Description: "Snapshot of before"},
		{Name: "Setup", Start: 5, End: 15, Color: "bg-blue-500", Description: "Introduce world and hero"},
		{Name: "Catalyst", Start: 15, End: 20, Color: "bg-purple-500", Description: "Life-changing event"},
		{Name: "Debate", Start: 20, End: 25, Color: "bg-indigo-500", Description: "Should they act?"},
		{Name: "Break into Two", Start: 25, End: 30, Color: "bg-cyan-500", Description: "Commit to journey"},
		{Name: "Fun and Games", Start: 30, End: 50, Color: "bg-yellow-500", Description: "Promise of premise"},
		{Name: "Midpoint", Start: 50, End: 55, Color: "bg-orange-500", Description: "False victory or defeat"},
		{Name: "Bad Guys Close In", Start: 55, End: 70, Color: "bg-red-500", Description: "Tension rises"},
		{Name: "All is Lost", Start: 70, End: 75, Color: "bg-rose-500", Description: "Lowest point"},
		{Name: "Dark Night", Start: 75, End: 80, Color: "bg-gray-700", Description: "Process the loss"},
		{Name: "Break into Three", Start: 80, End: 85, Color: "bg-pink-500", Description: "Solution found"},
		{Name: "Finale", Start: 85, End: 95, Color: "bg-green-500", Description: "Execute solution"},
		{Name: "Final Image", Start: 95, End: 100, Color: "bg-emerald-500", Description: "Snapshot of after"},
	},
	StructureFreytag: {
		{Name: "Exposition", Start: 0, End: 20, Color: "bg-blue-500", Description: "Background and setup"},
		{Name: "Rising Action", Start: 20, End: 50, Color: "bg-purple-500", Description: "Build tension"},
		{Name: "Climax", Start: 50, End: 60, Color: "bg-red-500", Description: "Turning point"},
		{Name: "Falling Action", Start: 60, End: 85, Color: "bg-orange-500", Description: "Consequences unfold"},
		{Name: "Denouement", Start: 85, End: 100, Color: "bg-green-500", Description: "Resolution and closure"},
	},
	StructureStoryCircle: {
		{Name: "Comfort Zone", Start: 0, End: 12, Color: "bg-gray-500", Description: "You - in familiar situation"},
		{Name: "Need/Want", Start: 12, End: 25, Color: "bg-blue-500", Description: "Desire something"},
		{Name: "Unfamiliar Situation", Start: 25, End: 37, Color: "bg-purple-500", Description: "Enter new world"},
		{Name: "Adapt", Start: 37, End: 50, Color: "bg-indigo-500", Description: "Search and learn"},
		{Name: "Get What They Want", Start: 50, End: 62, Color: "bg-yellow-500", Description: "Find what you sought"},
		{Name: "Pay Heavy Price", Start: 62, End: 75, Color: "bg-red-500", Description: "Consequences emerge"},
		{Name: "Return", Start: 75, End: 87, Color: "bg-orange-500", Description: "Go back to familiar"},
		{Name: "Change", Start: 87, End: 100, Color: "bg-green-500", Description: "You - transformed"},
	},
}
