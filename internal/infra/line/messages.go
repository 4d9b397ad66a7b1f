package line

import "university_line_bot/internal/domain/messaging"

// maxTemplateActions is the action limit of a LINE buttons template.
const maxTemplateActions = 4

// TextMessage is a plain text message payload.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// PostbackAction is a tappable action that sends its Data back to the bot.
type PostbackAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Data  string `json:"data"`
}

// ButtonsTemplate is the template payload of a buttons-template message.
type ButtonsTemplate struct {
	Type    string           `json:"type"`
	Title   string           `json:"title,omitempty"`
	Text    string           `json:"text"`
	Actions []PostbackAction `json:"actions"`
}

// TemplateMessage wraps a template payload with its alt text.
type TemplateMessage struct {
	Type     string          `json:"type"`
	AltText  string          `json:"altText"`
	Template ButtonsTemplate `json:"template"`
}

// FlexMessage carries an arbitrary flex container.
type FlexMessage struct {
	Type     string `json:"type"`
	AltText  string `json:"altText"`
	Contents any    `json:"contents"`
}

func newButtonsMessage(menu messaging.Menu) TemplateMessage {
	actions := make([]PostbackAction, 0, len(menu.Buttons))
	for _, b := range menu.Buttons {
		actions = append(actions, PostbackAction{Type: "postback", Label: b.Label, Data: b.Data})
	}
	text := menu.Text
	if text == "" {
		// LINE rejects buttons templates with an empty text field.
		text = menu.Title
	}
	return TemplateMessage{
		Type:    "template",
		AltText: menu.AltText,
		Template: ButtonsTemplate{
			Type:    "buttons",
			Title:   menu.Title,
			Text:    text,
			Actions: actions,
		},
	}
}

// newFlexMenuMessage renders a menu as a flex bubble: a bold title in the
// body and one link-style postback button per entry in the footer.
func newFlexMenuMessage(menu messaging.Menu) FlexMessage {
	buttons := make([]map[string]any, 0, len(menu.Buttons))
	for _, b := range menu.Buttons {
		buttons = append(buttons, map[string]any{
			"type":   "button",
			"style":  "link",
			"height": "sm",
			"action": map[string]any{
				"type":  "postback",
				"label": b.Label,
				"data":  b.Data,
			},
		})
	}

	bubble := map[string]any{
		"type": "bubble",
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]any{
				{
					"type":   "text",
					"text":   menu.Title,
					"weight": "bold",
					"size":   "xl",
				},
			},
		},
		"footer": map[string]any{
			"type":     "box",
			"layout":   "vertical",
			"spacing":  "sm",
			"contents": buttons,
		},
	}

	return FlexMessage{
		Type:     "flex",
		AltText:  menu.AltText,
		Contents: bubble,
	}
}
