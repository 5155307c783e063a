package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gridcad/internal/config"
	"gridcad/internal/crash"
	"gridcad/internal/export"
	applog "gridcad/internal/log"
	"gridcad/internal/storage"
	"gridcad/internal/telemetry"
	"gridcad/internal/version"
)

const usage = `gridcad <command> [flags]

Commands:
  version                      print the version and exit
  validate <snapshot>          parse a snapshot and report whether it is loadable
  info <snapshot>              print document statistics
  export-svg [flags] <snapshot>  render a snapshot to SVG
  export-pdf [flags] <snapshot>  render a snapshot to PDF

Export flags:
  -o <path>     output file (default: snapshot path with new extension)
  -cell <size>  rendered cell size (default from config)
  -labels       draw unit port names
`

func main() {
	applog.Init(applog.FromEnv())
	telemetry.InitDefault()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var code int
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "validate":
		code = cmdValidate(args[1:])
	case "info":
		code = cmdInfo(args[1:])
	case "export-svg":
		code = cmdExport(args[1:], "svg")
	case "export-pdf":
		code = cmdExport(args[1:], "pdf")
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		code = 2
	}
	os.Exit(code)
}

func cmdValidate(args []string) int {
	if len(args) != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	if _, err := storage.Load(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		return 1
	}
	fmt.Println("ok")
	return 0
}

func cmdInfo(args []string) int {
	if len(args) != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	st, err := storage.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		return 1
	}
	fmt.Printf("components: %d\n", st.ComponentCount())
	fmt.Printf("nets:       %d\n", st.NetCount())
	if b, ok := st.Bounds(); ok {
		fmt.Printf("bounds:     (%d,%d)..(%d,%d)\n", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	} else {
		fmt.Println("bounds:     empty")
	}
	return 0
}

func cmdExport(args []string, format string) int {
	fs := flag.NewFlagSet("export-"+format, flag.ContinueOnError)
	out := fs.String("o", "", "output file")
	cell := fs.Float64("cell", 0, "rendered cell size")
	labels := fs.Bool("labels", false, "draw unit port names")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	in := fs.Arg(0)

	l := applog.WithComponent("cli")
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	st, err := storage.Load(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		return 1
	}
	defer crash.Recover(&crash.Document{Path: in, Store: st})

	opt := export.Options{CellSize: cfg.Editor.GridSize, PortLabels: *labels}
	if *cell > 0 {
		opt.CellSize = *cell
	}
	dst := *out
	if dst == "" {
		dst = replaceExt(in, "."+format)
	}

	switch format {
	case "svg":
		err = export.ExportSVG(dst, st, opt)
	case "pdf":
		err = export.ExportPDF(dst, st, opt)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		return 1
	}
	telemetry.Event("export", map[string]any{"format": format})
	fmt.Println(dst)
	return 0
}

func replaceExt(path, ext string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[:i] + ext
		case '/', '\\':
			return path + ext
		}
	}
	return path + ext
}
