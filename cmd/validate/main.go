package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <S1234.bin|data dir>...\n", os.Args[0])
		os.Exit(1)
	}

	files, err := expandArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	validator := NewSceneValidator(os.Stdout)
	failed := 0
	for _, filename := range files {
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed++
		}
	}
	validator.printSummary()

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d scene files are invalid\n", failed, len(files))
		os.Exit(1)
	}
	fmt.Println("All scene files are valid!")
}

// expandArgs replaces directories with the scene files they contain.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "S*.bin"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errors.New("no scene files found")
	}
	return files, nil
}

// SceneValidator decodes scene data files and tallies their record types.
type SceneValidator struct {
	out    io.Writer
	title  cases.Caser
	counts map[action.Type]int
	errors []string
}

func NewSceneValidator(out io.Writer) *SceneValidator {
	return &SceneValidator{
		out:    out,
		title:  cases.Title(language.English),
		counts: make(map[action.Type]int),
	}
}

func (v *SceneValidator) validateFile(filename string) error {
	fmt.Fprintf(v.out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasPrefix(baseName, "S") || !strings.HasSuffix(baseName, ".bin") {
		return fmt.Errorf("scene file must be named S<id>.bin: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	v.validateScene(data)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *SceneValidator) validateScene(data []byte) {
	rd := stream.NewBytesReader(data)
	count := rd.Uint16()
	if err := rd.Err(); err != nil {
		v.addError("missing record count: %v", err)
		return
	}

	// A quiet manager: the validator reports problems itself.
	mgr := action.NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < int(count); i++ {
		offset := rd.Pos()
		rec, err := mgr.AddNewActionRecord(rd)
		if err != nil {
			v.addError("record %d at offset %d: %v", i, offset, err)
			return
		}
		v.counts[rec.Type()]++
		fmt.Fprintf(v.out, "  %3d  %-40s %s\n", i, v.label(rec.Type()), v.title.String(strings.ReplaceAll(rec.ExecType().String(), "_", " ")))
	}

	if rest := int64(len(data)) - rd.Pos(); rest > 0 {
		v.addError("%d trailing bytes after %d records", rest, count)
	}
}

func (v *SceneValidator) label(t action.Type) string {
	return v.title.String(t.String())
}

func (v *SceneValidator) printSummary() {
	if len(v.counts) == 0 {
		return
	}
	types := make([]action.Type, 0, len(v.counts))
	for t := range v.counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	fmt.Fprintln(v.out, "Record types:")
	for _, t := range types {
		fmt.Fprintf(v.out, "  %-40s %d\n", v.label(t), v.counts[t])
	}
}

func (v *SceneValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}
