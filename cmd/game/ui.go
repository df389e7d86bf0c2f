package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/tilequest/pkg/action"
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/state"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// GameUI is the BubbleTea model that runs the UI. It owns the pure
// game state and translates terminal input into engine events; every
// effect the engine requests comes back as a tea.Cmd whose completion
// is fed in as the next event.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	config    *ClientConfig
	client    *http.Client
	world     *world.Config
	sessionID uuid.UUID

	gs state.GameState

	dialogViewport viewport.Model
	ready          bool
	width          int
	height         int
	statusNote     string

	// Quit confirmation state
	showQuitModal bool

	// Waiting animation state
	waitTick int

	titleCaser cases.Caser
}

type chatResponseMsg struct {
	response chat.ChatResponse
}

type timerElapsedMsg struct{}

type waitTickMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	obstacleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")) // grey

	terrainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")) // near-black

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	sidebarStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	mapStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3)
)

func NewGameUI(cfg *ClientConfig, client *http.Client, w *world.Config) GameUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return GameUI{
		config:         cfg,
		client:         client,
		world:          w,
		sessionID:      uuid.New(),
		gs:             state.NewGameState(w),
		dialogViewport: vp,
		titleCaser:     cases.Title(language.English),
	}
}

func (m GameUI) Init() tea.Cmd {
	return nil
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dialogViewport.Width = m.width - 6
		m.dialogViewport.Height = m.height - 8
		m.ready = true
		if m.gs.Chat != nil {
			m.writeDialogContent()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.gs.Chat != nil {
				if err := clipboard.WriteAll(m.transcriptText()); err != nil {
					m.statusNote = "Could not copy transcript"
				} else {
					m.statusNote = "Transcript copied"
				}
			}
			return m, nil
		}

		key := keyName(msg)
		if key == "" {
			return m, nil
		}
		m.statusNote = ""
		return m.dispatch(state.KeyPressed{Key: key})

	case chatResponseMsg:
		return m.dispatch(state.ChatResponseReceived{Response: msg.response})

	case timerElapsedMsg:
		return m.dispatch(state.TimerElapsed{})

	case waitTickMsg:
		if m.gs.Chat != nil {
			if _, waiting := m.gs.Chat.Turn.(state.WaitingForAI); waiting {
				m.waitTick++
				m.writeDialogContent()
				return m, waitTickCmd()
			}
		}
		return m, nil
	}

	var vpCmd tea.Cmd
	m.dialogViewport, vpCmd = m.dialogViewport.Update(msg)
	return m, vpCmd
}

// dispatch runs one event through the engine, commits the new state,
// and converts requested effects into commands. Chat requests snapshot
// the committed contents so a later keystroke cannot mutate an
// in-flight request.
func (m GameUI) dispatch(ev state.Event) (tea.Model, tea.Cmd) {
	next, effects := state.HandleEvent(m.world, m.gs, ev)
	m.gs = next

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case state.StartTimer:
			d := e.Duration
			cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg {
				return timerElapsedMsg{}
			}))

		case state.SendChatRequest:
			if m.gs.Chat == nil {
				continue
			}
			req := chat.ChatRequest{
				AccessKey: m.config.AccessKey,
				SessionID: m.sessionID,
				NPCID:     m.gs.Chat.NPCID,
				Contents:  append([]chat.Message(nil), m.gs.Chat.Contents...),
			}
			cmds = append(cmds, func() tea.Msg {
				return chatResponseMsg{postChat(m.client, m.config.APIBaseURL, req)}
			})
			m.waitTick = 0
			cmds = append(cmds, waitTickCmd())
		}
	}

	if m.gs.Chat != nil {
		m.writeDialogContent()
	}
	return m, tea.Batch(cmds...)
}

// keyName translates a terminal key press into the engine's key
// identifiers. Keys without a mapping are dropped before dispatch.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyEnter:
		return state.KeyEnter
	case tea.KeyEsc:
		return state.KeyEscape
	case tea.KeyBackspace:
		return state.KeyBackspace
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && unicode.IsPrint(msg.Runes[0]) {
			return string(msg.Runes[0])
		}
	}
	return ""
}

func waitTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(time.Time) tea.Msg {
		return waitTickMsg{}
	})
}

func (m GameUI) npcName(id string) string {
	if npc, ok := m.world.NPCs[id]; ok && npc.Name != "" {
		return m.titleCaser.String(npc.Name)
	}
	return m.titleCaser.String(id)
}

// transcriptText renders the dialog history as plain text for the
// clipboard.
func (m GameUI) transcriptText() string {
	if m.gs.Chat == nil {
		return ""
	}
	name := m.npcName(m.gs.Chat.NPCID)
	var b strings.Builder
	if m.gs.Chat.Intro != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", name, m.gs.Chat.Intro))
	}
	for _, entry := range m.gs.Chat.History {
		if entry.IsAction() {
			outcome := "declined"
			if entry.Accepted {
				outcome = "accepted"
			}
			b.WriteString(fmt.Sprintf("* %s: %s\n", outcome, action.Describe(m.world, entry.Action)))
			continue
		}
		speaker := name
		if entry.Role == chat.RoleUser {
			speaker = "You"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", speaker, entry.Text))
	}
	return b.String()
}

// writeDialogContent rebuilds the dialog viewport from the chat
// history for the current width.
func (m *GameUI) writeDialogContent() {
	cw := m.gs.Chat
	if cw == nil {
		return
	}
	wrapWidth := m.dialogViewport.Width - 2
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	name := m.npcName(cw.NPCID)

	var content strings.Builder
	content.WriteString(titleStyle.Render(name) + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", wrapWidth)) + "\n\n")

	if cw.Intro != "" {
		content.WriteString(npcStyle.Render(wordwrap.String(cw.Intro, wrapWidth)) + "\n\n")
	}

	for _, entry := range cw.History {
		switch {
		case entry.IsAction():
			outcome := "You declined."
			if entry.Accepted {
				outcome = "Agreed."
			}
			line := fmt.Sprintf("* %s offers to %s. %s", name, action.Describe(m.world, entry.Action), outcome)
			content.WriteString(actionStyle.Render(wordwrap.String(line, wrapWidth)) + "\n\n")
		case entry.Role == chat.RoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.Text, wrapWidth-5) + "\n\n")
		default:
			content.WriteString(speakerStyle.Render(name+": ") + npcStyle.Render(wordwrap.String(entry.Text, wrapWidth)) + "\n\n")
		}
	}

	if _, waiting := cw.Turn.(state.WaitingForAI); waiting {
		dots := strings.Repeat(".", m.waitTick%4)
		content.WriteString(loadingStyle.Render(name+" is thinking"+dots) + "\n")
	}

	m.dialogViewport.SetContent(content.String())
	m.dialogViewport.GotoBottom()
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				return m, nil
			}
		}
	}
	return m, nil
}

func (m GameUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if m.showQuitModal {
		return m.renderModal("Quit Game?",
			"Are you sure you want to quit?",
			"Press Y to quit, N to continue")
	}

	if m.gs.Splash != "" {
		return m.renderModal("", m.gs.Splash, "Press any key to continue")
	}

	if m.gs.Chat != nil {
		return m.renderDialog()
	}

	return m.renderNavigation()
}

func (m GameUI) renderModal(title, body, hint string) string {
	var content strings.Builder
	if title != "" {
		content.WriteString(modalTitleStyle.Render(title) + "\n\n")
	}
	content.WriteString(wordwrap.String(body, 44))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(hint))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m GameUI) renderNavigation() string {
	mapPanel := mapStyle.Render(m.renderMap())
	sidebar := sidebarStyle.Render(m.renderSidebar())
	return lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, sidebar)
}

func (m GameUI) renderMap() string {
	grid := m.world.Map(m.gs.Player.MapID)
	if grid == nil {
		return errorStyle.Render("unknown map: " + m.gs.Player.MapID)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.titleCaser.String(grid.ID)) + "\n\n")
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if x == m.gs.Player.X && y == m.gs.Player.Y {
				b.WriteString(playerStyle.Render("@"))
				continue
			}
			switch grid.Tiles[y][x].Kind {
			case world.TileObstacle:
				b.WriteString(obstacleStyle.Render("#"))
			case world.TileNPC:
				b.WriteString(npcStyle.Render("n"))
			default:
				b.WriteString(terrainStyle.Render("."))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m GameUI) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TILEQUEST") + "\n\n")

	b.WriteString(speakerStyle.Render("Inventory") + "\n")
	if len(m.gs.Inventory.Slots) == 0 {
		b.WriteString(promptStyle.Render("(empty)") + "\n")
	}
	for _, slot := range m.gs.Inventory.Slots {
		name := slot.ObjectID
		if it, ok := m.world.Items[slot.ObjectID]; ok && it.Name != "" {
			name = it.Name
		}
		b.WriteString(fmt.Sprintf("• %s ×%d\n", name, slot.Quantity))
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("Arrows/WASD: move") + "\n")
	b.WriteString(promptStyle.Render("Walk into n to talk") + "\n")
	b.WriteString(promptStyle.Render("Ctrl+C: quit") + "\n")

	if m.statusNote != "" {
		b.WriteString("\n" + loadingStyle.Render(m.statusNote) + "\n")
	}
	return b.String()
}

func (m GameUI) renderDialog() string {
	var footer string
	switch turn := m.gs.Chat.Turn.(type) {
	case state.UserTurn:
		footer = promptStyle.Render(":: ") + turn.CurrentMessage + promptStyle.Render("█") + "\n" +
			promptStyle.Render("Enter: send · Esc: walk away · Ctrl+Y: copy transcript")

	case state.WaitingForAI:
		footer = promptStyle.Render("Esc: walk away")

	case state.ConfirmingAction:
		name := m.npcName(m.gs.Chat.NPCID)
		prompt := fmt.Sprintf("%s offers to %s. Accept?", name, turn.Prompt)
		footer = speakerStyle.Render(prompt) + " " + promptStyle.Render("(y/n)")
		if turn.Warning != "" {
			footer += "\n" + errorStyle.Render(turn.Warning)
		}

	case state.AnimatingBeforeEndChat:
		footer = loadingStyle.Render("The conversation comes to an end...")
	}

	sep := separatorStyle.Render(strings.Repeat("─", max(m.dialogViewport.Width, 20)))
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.dialogViewport.View(),
		sep,
		footer,
	)
	return lipgloss.NewStyle().Padding(1, 3).Render(body)
}
