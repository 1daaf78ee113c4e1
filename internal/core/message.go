package core

type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentMention
)

// Segment is one typed piece of a message body.
type Segment struct {
	Kind SegmentKind
	Text string
	// UserID is set for mentions.
	UserID string
}

func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

func MentionSegment(userID string) Segment {
	return Segment{Kind: SegmentMention, UserID: userID}
}

// InboundMessage is a platform-neutral chat message as delivered to the router.
type InboundMessage struct {
	Text    string
	User    string
	TS      string
	Channel string
	// ThreadID and ParentUserID are set when the message is a reply in a thread.
	ThreadID     string
	ParentUserID string
	// Segments is the parsed body. Transports with structured rich text fill it
	// directly, otherwise the router parses Text.
	Segments []Segment
}

type MessageKind int

const (
	KindOrdinary MessageKind = iota
	KindDirectQuestion
	KindThreadedReply
)

func (k MessageKind) String() string {
	switch k {
	case KindDirectQuestion:
		return "direct_question"
	case KindThreadedReply:
		return "threaded_reply"
	default:
		return "ordinary"
	}
}

type UserProfile struct {
	ID          string
	Name        string
	DisplayName string
}

// Label picks the most human-friendly name available.
func (u UserProfile) Label() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

// ThreadMessage is a raw thread reply as returned by the platform.
type ThreadMessage struct {
	User string
	Text string
}
