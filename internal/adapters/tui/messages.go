package tui

import "time"

// MsgInitLanes seeds the model with the expanded lane IDs and the step
// sequence every lane will run.
type MsgInitLanes struct {
	Lanes []string
	Steps []string
}

// MsgSpanStart is sent when a lane or step span starts. Lane spans have an
// empty ParentID.
type MsgSpanStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgSpanLog carries raw step output for a span.
type MsgSpanLog struct {
	SpanID string
	Data   []byte
}

// MsgSpanComplete is sent when a lane or step span ends.
type MsgSpanComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
