package telegram

import "strings"

// Telegram rejects callback data longer than this.
const maxCallbackData = 64

// Callback action constants.
const (
	actionReply = "reply"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// value is the reply text a button carries; it may itself contain colons.
func (cd callbackData) value() string {
	return strings.Join(cd.Params, ":")
}

// buildReplyCallback builds callback data that answers with value.
func buildReplyCallback(value string) (string, bool) {
	data := callbackData{Action: actionReply, Params: []string{value}}.encode()
	return data, len(data) <= maxCallbackData
}
