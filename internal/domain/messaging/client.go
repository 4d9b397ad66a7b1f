package messaging

import "context"

// Button is one tappable action in a menu. Data is the postback payload the
// platform sends back when the user taps it.
type Button struct {
	Label string
	Data  string
}

// Menu is an interactive message with tappable postback buttons. AltText is
// shown on devices that cannot render the interactive payload.
type Menu struct {
	AltText string
	Title   string
	Text    string
	Buttons []Button
}

// Client defines reply operations against the messaging platform. This
// decouples the application logic from the LINE transport implementation so
// tests can substitute fakes.
type Client interface {
	// ReplyText answers the conversation turn identified by replyToken with
	// one or more plain text messages.
	ReplyText(ctx context.Context, replyToken string, texts ...string) error
	// ReplyMenu answers with an interactive menu, optionally preceded by an
	// intro text message when intro is non-empty.
	ReplyMenu(ctx context.Context, replyToken string, intro string, menu Menu) error
}

// TagDirectory maps human-readable tag names to platform tag identifiers
// and attaches tags to users.
type TagDirectory interface {
	// ResolveOrCreateTag returns the identifier of the tag named name,
	// creating the tag on the platform if it does not exist yet.
	ResolveOrCreateTag(ctx context.Context, name string) (int64, error)
	// AttachTag adds the tag to the given user.
	AttachTag(ctx context.Context, lineUserID string, tagID int64) error
}

// Broadcaster sends a message to every user carrying a given tag.
type Broadcaster interface {
	NarrowcastText(ctx context.Context, tagID int64, text string) error
}
