package services

// Event types pushed over the tournament websocket room.
const (
	EventFixturesGenerated = "FIXTURES_GENERATED"
	EventBracketCreated    = "BRACKET_CREATED"
	EventBracketAdvanced   = "BRACKET_ADVANCED"
	EventResultRecorded    = "RESULT_RECORDED"
	EventResultDeleted     = "RESULT_DELETED"
)

type LiveEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
