package page

import "github.com/byxorna/shelf/pkg/ui"

// statusMessageType adds some context to the status message being sent.
type statusMessageType int

const (
	normalStatusMessage statusMessageType = iota
	subtleStatusMessage
	errorStatusMessage
)

// statusMessage is an ephemeral note displayed under the list.
type statusMessage struct {
	status  statusMessageType
	message string
}

func (s statusMessage) String() string {
	switch s.status {
	case subtleStatusMessage:
		return ui.DimNormalFg(s.message)
	case errorStatusMessage:
		return ui.RedFg(s.message)
	default:
		return ui.GreenFg(s.message)
	}
}
