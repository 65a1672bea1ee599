package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

const helpText = `Commands:
• frame [n]          Run n frames with no input (default 1)
• click x y          Release the left button at x,y and run a frame
• hover x y          Move the pointer to x,y and run a frame
• records            List live action records
• pause / resume     Pause or resume the scene
• save [name]        Store a save game
• load <id|last>     Restore a save game
• saves              List stored save games
• delete <id>        Remove a save game
• flag <label> <on|off>
• item <add|remove> <id>
• hints <n>          Set hints remaining for the current difficulty
• difficulty <0-2>
• help               Show this help`

// Session drives a scene from console commands.
type Session struct {
	scene    *scene.Scene
	store    storage.SaveStore
	logger   *slog.Logger
	title    cases.Caser
	lastSave uuid.UUID
	pointer  action.Point

	// copy places text on the system clipboard; nil disables it.
	copy func(string) error
}

func NewSession(sc *scene.Scene, store storage.SaveStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		scene:  sc,
		store:  store,
		logger: logger,
		title:  cases.Title(language.English),
		copy:   clipboard.WriteAll,
	}
}

var errUsage = errors.New("usage")

// Execute runs one command line and returns the text to show.
func (s *Session) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(strings.TrimPrefix(fields[0], "/")), fields[1:]

	switch cmd {
	case "help":
		return helpText, nil
	case "frame", "step":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return "", fmt.Errorf("%w: frame [n]", errUsage)
			}
			n = v
		}
		return s.runFrames(n, action.Input{MousePos: s.pointer})
	case "click", "hover":
		pos, err := parsePoint(args)
		if err != nil {
			return "", fmt.Errorf("%w: %s x y", errUsage, cmd)
		}
		s.pointer = pos
		in := action.Input{MousePos: pos}
		if cmd == "click" {
			in.Buttons = action.LeftMouseButtonUp
		}
		return s.runFrames(1, in)
	case "records":
		return s.describeRecords(), nil
	case "pause":
		s.scene.Pause(true)
		return "Paused", nil
	case "resume":
		s.scene.Pause(false)
		return "Resumed", nil
	case "save":
		return s.save(ctx, strings.Join(args, " "))
	case "load":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: load <id|last>", errUsage)
		}
		return s.load(ctx, args[0])
	case "saves":
		return s.listSaves(ctx)
	case "delete":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: delete <id>", errUsage)
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid save id: %w", err)
		}
		if err := s.store.DeleteGame(ctx, id); err != nil {
			return "", err
		}
		return "Deleted " + id.String(), nil
	case "flag":
		return s.setFlag(args)
	case "item":
		return s.setItem(args)
	case "hints":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: hints <n>", errUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: hints <n>", errUsage)
		}
		gs := s.scene.State
		gs.Hints[min(int(gs.Difficulty()), len(gs.Hints)-1)] = n
		return fmt.Sprintf("Hints remaining: %d", gs.HintsRemaining()), nil
	case "difficulty":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: difficulty <0-2>", errUsage)
		}
		d, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil || d > 2 {
			return "", fmt.Errorf("%w: difficulty <0-2>", errUsage)
		}
		s.scene.State.SetDifficulty(uint16(d))
		return fmt.Sprintf("Difficulty: %d", d), nil
	default:
		return "", fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func parsePoint(args []string) (action.Point, error) {
	if len(args) != 2 {
		return action.Point{}, errUsage
	}
	x, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return action.Point{}, err
	}
	y, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return action.Point{}, err
	}
	return action.Point{X: int32(x), Y: int32(y)}, nil
}

// runFrames runs n frames, sending in on the first one only.
func (s *Session) runFrames(n int, in action.Input) (string, error) {
	var out []string
	for i := 0; i < n; i++ {
		if i > 0 {
			in.Buttons = 0
		}
		report, err := s.scene.Frame(in)
		if err != nil {
			return strings.Join(out, "\n"), err
		}
		if report.Entered {
			out = append(out, fmt.Sprintf("Entered scene %d", s.scene.State.Scene.SceneID))
		}
		if report.Requested != action.ModeNone {
			out = append(out, "Requested "+s.title.String(report.Requested.String()))
		}
		if i == 0 && report.OverHotspot {
			out = append(out, "Pointer over hotspot")
		}
	}
	out = append(out, fmt.Sprintf("Frame %d", s.scene.Frames()))
	return strings.Join(out, "\n"), nil
}

func (s *Session) describeRecords() string {
	records := s.scene.Manager.Records()
	if len(records) == 0 {
		return "No action records"
	}
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "%2d %-36s %-16s", i, s.title.String(rec.Type().String()), s.stateLabel(rec))
		if rec.HasHotspot() {
			hs := rec.Hotspot()
			fmt.Fprintf(&b, " hotspot %d,%d-%d,%d", hs.Left, hs.Top, hs.Right, hs.Bottom)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) stateLabel(rec action.Record) string {
	switch {
	case rec.IsDone():
		return "Done"
	case !rec.IsActive():
		return "Inactive"
	default:
		return s.title.String(strings.ReplaceAll(rec.State().String(), "_", " "))
	}
}

func (s *Session) save(ctx context.Context, name string) (string, error) {
	data, err := s.scene.SaveBytes()
	if err != nil {
		return "", err
	}
	if name == "" {
		name = fmt.Sprintf("Scene %d", s.scene.State.Scene.SceneID)
	}
	sg := &storage.SaveGame{
		Name:    name,
		SceneID: s.scene.State.Scene.SceneID,
		Data:    data,
	}
	if err := s.store.SaveGame(ctx, sg); err != nil {
		return "", err
	}
	s.lastSave = sg.ID

	msg := "Saved " + sg.ID.String()
	if s.copy != nil {
		if err := s.copy(sg.ID.String()); err != nil {
			s.logger.Debug("Clipboard unavailable", "error", err)
		} else {
			msg += " (copied)"
		}
	}
	return msg, nil
}

func (s *Session) load(ctx context.Context, ref string) (string, error) {
	id := s.lastSave
	if ref != "last" {
		parsed, err := uuid.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid save id: %w", err)
		}
		id = parsed
	}
	if id == uuid.Nil {
		return "", errors.New("no save game yet")
	}

	sg, err := s.store.LoadGame(ctx, id)
	if err != nil {
		return "", err
	}
	if sg == nil {
		return "", fmt.Errorf("save game %s not found", id)
	}
	if err := s.scene.LoadBytes(sg.Data); err != nil {
		return "", err
	}
	return fmt.Sprintf("Loaded %q at scene %d", sg.Name, s.scene.State.Scene.SceneID), nil
}

func (s *Session) listSaves(ctx context.Context) (string, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return "", err
	}
	if len(games) == 0 {
		return "No save games", nil
	}
	var b strings.Builder
	for _, sg := range games {
		fmt.Fprintf(&b, "%s  %-24s scene %-5d %s\n", sg.ID, sg.Name, sg.SceneID, sg.CreatedAt.Local().Format(time.DateTime))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Session) setFlag(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: flag <label> <on|off>", errUsage)
	}
	label, err := strconv.ParseInt(args[0], 10, 16)
	if err != nil || label < 0 {
		return "", fmt.Errorf("%w: flag <label> <on|off>", errUsage)
	}
	var on bool
	switch strings.ToLower(args[1]) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
	default:
		return "", fmt.Errorf("%w: flag <label> <on|off>", errUsage)
	}
	s.scene.State.SetEventFlag(action.EventFlag{Label: int16(label), Flag: action.FlagOf(on)})
	return fmt.Sprintf("Flag %d = %t", label, on), nil
}

func (s *Session) setItem(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: item <add|remove> <id>", errUsage)
	}
	id, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return "", fmt.Errorf("%w: item <add|remove> <id>", errUsage)
	}
	switch strings.ToLower(args[0]) {
	case "add":
		s.scene.State.AddItem(uint16(id))
	case "remove":
		s.scene.State.RemoveItem(uint16(id))
	default:
		return "", fmt.Errorf("%w: item <add|remove> <id>", errUsage)
	}
	return fmt.Sprintf("Inventory: %v", s.scene.State.Items()), nil
}

// Summary renders the state panel.
func (s *Session) Summary() string {
	gs := s.scene.State
	var b strings.Builder

	fmt.Fprintf(&b, "Scene:\n%d (frame %d)\n\n", gs.Scene.SceneID, gs.Scene.FrameID)
	fmt.Fprintf(&b, "Mode:\n%s\n\n", s.title.String(gs.Mode.String()))
	fmt.Fprintf(&b, "Frames:\n%d", s.scene.Frames())
	if s.scene.Paused() {
		b.WriteString(" (paused)")
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Records:\n%d live\n\n", s.scene.Manager.Len())
	fmt.Fprintf(&b, "Difficulty:\n%d, %d hints left\n\n", gs.Difficulty(), gs.HintsRemaining())

	if gs.Timer.Running {
		fmt.Fprintf(&b, "Timer:\n%s\n\n", gs.Timer.Elapsed.Truncate(time.Second/10))
	}

	if items := gs.Items(); len(items) > 0 {
		fmt.Fprintf(&b, "Inventory:\n%v\n\n", items)
	} else {
		b.WriteString("Inventory:\nEmpty\n\n")
	}

	var set []int
	for label, f := range gs.Flags {
		if f.Bool() {
			set = append(set, int(label))
		}
	}
	sort.Ints(set)
	if len(set) > 0 {
		fmt.Fprintf(&b, "Flags set:\n%v\n\n", set)
	} else {
		b.WriteString("Flags set:\nNone\n\n")
	}

	if lines := gs.Textbox.Wrapped(); len(lines) > 0 {
		b.WriteString("Textbox:\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}

	if s.lastSave != uuid.Nil {
		fmt.Fprintf(&b, "Last save:\n%s...\n", s.lastSave.String()[:8])
	}
	return b.String()
}
