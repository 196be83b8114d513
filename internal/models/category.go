package models

// Category is the handler family a request belongs to.
type Category int

const (
	CategoryUnrecognized Category = iota
	CategoryLaunch
	CategoryConvertUnits
	CategoryHelp
	CategoryCancelOrStop
	CategorySessionEnded
)

var categoryNames = map[Category]string{
	CategoryUnrecognized: "unrecognized",
	CategoryLaunch:       "launch",
	CategoryConvertUnits: "convert_units",
	CategoryHelp:         "help",
	CategoryCancelOrStop: "cancel_or_stop",
	CategorySessionEnded: "session_ended",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unrecognized"
}

// Classify inspects request type and intent name only.
func Classify(env *RequestEnvelope) Category {
	switch env.RequestType() {
	case RequestTypeLaunch:
		return CategoryLaunch
	case RequestTypeSessionEnded:
		return CategorySessionEnded
	case RequestTypeIntent:
		switch env.IntentName() {
		case IntentConvertUnits:
			return CategoryConvertUnits
		case IntentHelp:
			return CategoryHelp
		case IntentCancel, IntentStop:
			return CategoryCancelOrStop
		}
	}
	return CategoryUnrecognized
}
