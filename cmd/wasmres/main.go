package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-resource/engine"
	"github.com/wippyai/wasm-resource/resource"
	"github.com/wippyai/wasm-resource/xmlcodec"
)

type options struct {
	wasmFile string
	cat      string
	xml      string
	cacheDir string
	list     bool
	scanOnly bool
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to module or component wasm file")
		list        = flag.Bool("list", false, "List embedded resources")
		cat         = flag.String("cat", "", "Print a resource as text")
		xmlName     = flag.String("xml", "", "Print a resource as an XML outline")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		cacheDir    = flag.String("cache", "", "Compilation cache directory")
		scanOnly    = flag.Bool("scan", false, "Scan sections without compiling")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: wasmres -wasm <file.wasm> [-list] [-cat name] [-xml name]")
		fmt.Fprintln(os.Stderr, "       wasmres -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		if err := setupLogging(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	opts := options{
		wasmFile: *wasmFile,
		cat:      *cat,
		xml:      *xmlName,
		cacheDir: *cacheDir,
		list:     *list,
		scanOnly: *scanOnly,
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	engine.SetLogger(log)
	resource.SetLogger(log)
	xmlcodec.SetLogger(log)
	return nil
}

func load(ctx context.Context, opts options) (*engine.WazeroEngine, *engine.WazeroModule, error) {
	eng, err := engine.NewWazeroEngineWithConfig(ctx, &engine.Config{
		CacheDir: opts.cacheDir,
		ScanOnly: opts.scanOnly,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}

	mod, err := eng.LoadFile(ctx, opts.wasmFile)
	if err != nil {
		eng.Close(ctx)
		return nil, nil, fmt.Errorf("load module: %w", err)
	}
	return eng, mod, nil
}

func run(w io.Writer, opts options) error {
	ctx := context.Background()

	eng, mod, err := load(ctx, opts)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)
	defer mod.Close(ctx)

	acc := resource.Default()

	if opts.cat != "" {
		text, err := acc.ReadText(mod, opts.cat)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}

	if opts.xml != "" {
		doc, err := acc.ReadXMLTree(mod, opts.xml)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, outline(doc.Root(), plainStyles))
		return err
	}

	kind := "module"
	if mod.IsComponent() {
		kind = "component"
	}
	name := mod.Name()
	if name == "" {
		name = opts.wasmFile
	}
	fmt.Fprintf(w, "%s: %s\n", kind, name)
	fmt.Fprintf(w, "Resources: %d\n", len(mod.ResourceNames()))

	if opts.list {
		fmt.Fprintln(w)
		for _, rn := range mod.ResourceNames() {
			size, _ := mod.Size(rn)
			fmt.Fprintf(w, "  %-40s %8d bytes\n", rn, size)
		}
	}
	return nil
}
