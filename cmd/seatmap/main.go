// seatmap is the offline companion of the server.  It renders templates and
// saved snapshots to SVG, prints seat statistics, exports template
// snapshots and mints development owner tokens.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/seatmap-studio/internal/codec"
	"github.com/iliyamo/seatmap-studio/internal/config"
	"github.com/iliyamo/seatmap-studio/internal/editor"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/render"
	"github.com/iliyamo/seatmap-studio/internal/template"
	"github.com/iliyamo/seatmap-studio/internal/utils"
)

const usage = `Usage: seatmap <command> [flags]

Commands:
  render   draw a template or snapshot as SVG
  stats    print seat counts per section and type
  export   write a template as a snapshot JSON document
  token    mint an owner token for local development
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return runRender(rest, stdout)
	case "stats":
		return runStats(rest, stdout)
	case "export":
		return runExport(rest, stdout)
	case "token":
		return runToken(rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// source selects the layout a command works on.
type source struct {
	template string
	snapshot string
	config   string
}

func (s *source) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&s.template, "template", "t", "", "built-in template: "+templateNames())
	fs.StringVarP(&s.snapshot, "snapshot", "s", "", "snapshot JSON file")
	fs.StringVar(&s.config, "config", os.Getenv("EDITOR_CONFIG"), "YAML file with editor defaults")
}

func (s *source) load() (*layout.Layout, config.EditorConfig, error) {
	cfg, err := config.LoadEditorConfig(s.config)
	if err != nil {
		return nil, cfg, err
	}
	switch {
	case s.template != "" && s.snapshot != "":
		return nil, cfg, errors.New("--template and --snapshot are mutually exclusive")
	case s.snapshot != "":
		data, err := os.ReadFile(s.snapshot)
		if err != nil {
			return nil, cfg, err
		}
		snap, err := codec.DecodeSnapshot(data)
		if err != nil {
			return nil, cfg, fmt.Errorf("%s: %w", s.snapshot, err)
		}
		return layout.FromSnapshot(snap), cfg, nil
	case s.template != "":
		id, err := template.Parse(s.template)
		if err != nil {
			return nil, cfg, err
		}
		bp, err := template.Generate(id)
		if err != nil {
			return nil, cfg, err
		}
		l := cfg.NewLayout(bp.Name)
		l.Replace(bp.Sections, bp.LayoutSeats(), bp.Elements)
		return l, cfg, nil
	}
	return nil, cfg, errors.New("one of --template or --snapshot is required")
}

func templateNames() string {
	names := make([]string, 0, len(template.IDs))
	for _, id := range template.IDs {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}

func runRender(args []string, stdout io.Writer) error {
	var (
		src    source
		out    string
		picker bool
		picked []string
		width  float64
		height float64
		ratio  float64
	)
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	src.addFlags(fs)
	fs.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	fs.BoolVar(&picker, "picker", false, "draw the guest picker view instead of the editor view")
	fs.StringSliceVar(&picked, "picked", nil, "seat ids drawn as held in the picker view")
	fs.Float64Var(&width, "width", 0, "canvas width in CSS pixels")
	fs.Float64Var(&height, "height", 0, "canvas height in CSS pixels")
	fs.Float64Var(&ratio, "ratio", 1, "device pixel ratio")
	if err := fs.Parse(args); err != nil {
		return err
	}
	l, cfg, err := src.load()
	if err != nil {
		return err
	}

	var f render.Frame
	if picker {
		held := make(map[string]bool, len(picked))
		for _, id := range picked {
			held[id] = true
		}
		f = render.RenderPicker(render.PickerView{Layout: l, Picked: held, Width: width, Height: height, PixelRatio: ratio})
	} else {
		s := editor.New(l, cfg.Editor)
		s.SetViewSize(width, height)
		s.SetPreview(true)
		if l.SeatCount() > 0 {
			s.FitView()
		}
		opts := s.Options()
		f = render.Render(render.SessionView(s, opts.ViewWidth, opts.ViewHeight, ratio))
	}
	return writeOut(out, stdout, []byte(f.SVG()+"\n"))
}

func runStats(args []string, stdout io.Writer) error {
	var (
		src    source
		asJSON bool
	)
	fs := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	src.addFlags(fs)
	fs.BoolVar(&asJSON, "json", false, "print the statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	l, _, err := src.load()
	if err != nil {
		return err
	}
	md := l.Stats()
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(md)
	}
	fmt.Fprintf(stdout, "total seats: %d\n", md.TotalSeats)
	fmt.Fprintf(stdout, "rows: %d\n", len(l.Rows()))
	fmt.Fprintln(stdout, "sections:")
	for _, sc := range md.SectionCounts {
		fmt.Fprintf(stdout, "  %-20s %5d\n", sc.Name, sc.Count)
	}
	fmt.Fprintln(stdout, "types:")
	for _, tc := range md.SeatTypeCounts {
		fmt.Fprintf(stdout, "  %-20s %5d\n", tc.Type, tc.Count)
	}
	return nil
}

func runExport(args []string, stdout io.Writer) error {
	var (
		src source
		out string
	)
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	src.addFlags(fs)
	fs.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	l, _, err := src.load()
	if err != nil {
		return err
	}
	data, err := codec.EncodeSnapshot(l.Snapshot())
	if err != nil {
		return err
	}
	return writeOut(out, stdout, append(data, '\n'))
}

func runToken(args []string, stdout io.Writer) error {
	var (
		secret string
		userID uint64
		role   string
		ttl    time.Duration
	)
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (default $JWT_SECRET)")
	fs.Uint64Var(&userID, "user", 1, "owner user id")
	fs.StringVar(&role, "role", "OWNER", "role claim")
	fs.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tok, err := utils.NewAccessToken(secret, userID, role, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok.Token)
	return nil
}

func writeOut(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
