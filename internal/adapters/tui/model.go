package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// logTailLines is the number of output lines kept per lane for the log pane.
const logTailLines = 200

// LaneStatus represents the current state of a lane.
type LaneStatus string

const (
	// StatusPending indicates the lane is waiting to start.
	StatusPending LaneStatus = "Pending"
	// StatusRunning indicates the lane is currently executing.
	StatusRunning LaneStatus = "Running"
	// StatusDone indicates the lane completed successfully.
	StatusDone LaneStatus = "Done"
	// StatusError indicates the lane failed.
	StatusError LaneStatus = "Error"
)

// LaneNode represents a single lane in the UI list.
type LaneNode struct {
	Name        string
	Status      LaneStatus
	CurrentStep string
	StepsDone   int
	Log         *logTail
}

// logTail keeps the last N complete lines of output plus a partial line.
type logTail struct {
	lines   []string
	partial string
	limit   int
}

func newLogTail(limit int) *logTail {
	return &logTail{limit: limit}
}

func (l *logTail) Write(data []byte) {
	s := l.partial + string(data)
	parts := strings.Split(s, "\n")
	l.partial = parts[len(parts)-1]
	l.lines = append(l.lines, parts[:len(parts)-1]...)
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
}

// Tail returns the last n lines, including any partial line.
func (l *logTail) Tail(n int) []string {
	lines := l.lines
	if l.partial != "" {
		lines = append(append([]string{}, lines...), l.partial)
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Model represents the main TUI state.
type Model struct {
	Lanes       []*LaneNode
	LaneMap     map[string]*LaneNode
	SpanMap     map[string]*LaneNode
	StepSpans   map[string]string // step spanID -> lane spanID
	StepNames   []string
	SelectedIdx int
	ListOffset  int
	Width       int
	Height      int
	FollowMode  bool
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) listHeight() int {
	h := m.Height - headerHeight()
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureVisible() {
	height := m.listHeight()
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+height {
		m.ListOffset = m.SelectedIdx - height + 1
	}
}

func (m *Model) selectedLane() *LaneNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Lanes) {
		return m.Lanes[m.SelectedIdx]
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Lanes)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
			}
		case "esc":
			m.FollowMode = true
			for i, lane := range m.Lanes {
				if lane.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ensureVisible()

	case MsgInitLanes:
		m.Lanes = make([]*LaneNode, len(msg.Lanes))
		m.LaneMap = make(map[string]*LaneNode, len(msg.Lanes))
		m.SpanMap = make(map[string]*LaneNode)
		m.StepSpans = make(map[string]string)
		m.StepNames = msg.Steps
		for i, name := range msg.Lanes {
			m.Lanes[i] = &LaneNode{
				Name:   name,
				Status: StatusPending,
				Log:    newLogTail(logTailLines),
			}
			m.LaneMap[name] = m.Lanes[i]
		}

	case MsgSpanStart:
		if msg.ParentID == "" {
			m.startLane(msg)
			break
		}
		// Step span: attach to the parent lane.
		if lane, ok := m.SpanMap[msg.ParentID]; ok {
			m.SpanMap[msg.SpanID] = lane
			m.StepSpans[msg.SpanID] = msg.ParentID
			lane.CurrentStep = msg.Name
		}

	case MsgSpanLog:
		if lane, ok := m.SpanMap[msg.SpanID]; ok {
			lane.Log.Write(msg.Data)
		}

	case MsgSpanComplete:
		lane, ok := m.SpanMap[msg.SpanID]
		if !ok {
			break
		}
		if _, isStep := m.StepSpans[msg.SpanID]; isStep {
			if msg.Err == nil {
				lane.StepsDone++
			}
			delete(m.StepSpans, msg.SpanID)
			delete(m.SpanMap, msg.SpanID)
			break
		}
		// Lane span.
		lane.CurrentStep = ""
		if msg.Err != nil {
			lane.Status = StatusError
		} else {
			lane.Status = StatusDone
		}
		delete(m.SpanMap, msg.SpanID)
	}

	return m, nil
}

func (m *Model) startLane(msg MsgSpanStart) {
	node, ok := m.LaneMap[msg.Name]
	if !ok {
		// Lane not announced via MsgInitLanes, register it late.
		node = &LaneNode{Name: msg.Name, Log: newLogTail(logTailLines)}
		m.Lanes = append(m.Lanes, node)
		if m.LaneMap == nil {
			m.LaneMap = make(map[string]*LaneNode)
		}
		if m.SpanMap == nil {
			m.SpanMap = make(map[string]*LaneNode)
		}
		if m.StepSpans == nil {
			m.StepSpans = make(map[string]string)
		}
		m.LaneMap[msg.Name] = node
	}

	node.Status = StatusRunning
	m.SpanMap[msg.SpanID] = node

	if m.FollowMode {
		for i, lane := range m.Lanes {
			if lane.Name == msg.Name {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
	}
}
