package chat

import (
	"fmt"
	"strings"
)

// Mode is the assistant persona that prefixes every prompt.
type Mode string

const (
	ModeDisaster Mode = "disaster"
	ModeFirstAid Mode = "firstaid"
	ModeMental   Mode = "mental"
)

// DefaultMode is used when the caller does not pick one.
const DefaultMode = ModeDisaster

// ParseMode accepts the mode names case-insensitively; empty selects
// DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeDisaster:
		return ModeDisaster, nil
	case ModeFirstAid:
		return ModeFirstAid, nil
	case ModeMental:
		return ModeMental, nil
	default:
		return "", fmt.Errorf("unknown chat mode %q", s)
	}
}

func (m Mode) Upper() string {
	return strings.ToUpper(string(m))
}

// SuggestedQuestion is a canned prompt offered for a mode.
type SuggestedQuestion struct {
	Icon     string `json:"icon"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// ModeInfo describes a mode for the UI.
type ModeInfo struct {
	Mode      Mode                `json:"mode"`
	Title     string              `json:"title"`
	Icon      string              `json:"icon"`
	Questions []SuggestedQuestion `json:"questions"`
}

// Modes lists the modes in display order.
var Modes = []ModeInfo{
	{
		Mode:  ModeDisaster,
		Title: "Disaster Assistant",
		Icon:  "alert-octagram",
		Questions: []SuggestedQuestion{
			{Icon: "alert-circle", Text: "What should I do in case of an emergency?", Category: "Emergency"},
			{Icon: "map-marker-radius", Text: "Where is the nearest emergency facility?", Category: "Location"},
			{Icon: "medical-bag", Text: "What supplies should I have in my emergency kit?", Category: "Resources"},
			{Icon: "shield-alert", Text: "What are the current risk levels in my area?", Category: "Safety"},
		},
	},
	{
		Mode:  ModeFirstAid,
		Title: "First Aid Guide",
		Icon:  "medical-bag",
		Questions: []SuggestedQuestion{
			{Icon: "bandage", Text: "How do I treat a minor burn?", Category: "Burns"},
			{Icon: "heart-pulse", Text: "What are the steps for basic CPR?", Category: "CPR"},
			{Icon: "hospital-box", Text: "How do I handle a severe bleeding wound?", Category: "Bleeding"},
			{Icon: "bone", Text: "What should I do for a possible broken bone?", Category: "Injuries"},
		},
	},
	{
		Mode:  ModeMental,
		Title: "Mental Health Support",
		Icon:  "brain",
		Questions: []SuggestedQuestion{
			{Icon: "meditation", Text: "What are some quick anxiety relief techniques?", Category: "Anxiety"},
			{Icon: "head-heart", Text: "How can I help someone in emotional distress?", Category: "Crisis"},
			{Icon: "sleep", Text: "What can I do to improve my sleep quality?", Category: "Sleep"},
			{Icon: "hand-heart", Text: "Where can I find professional mental health support?", Category: "Resources"},
		},
	},
}
