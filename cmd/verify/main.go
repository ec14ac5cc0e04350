package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/chainmeta/metacheck/errors"
	"github.com/chainmeta/metacheck/metadata"
	"github.com/chainmeta/metacheck/transport"
)

// Exit statuses distinguish where the pipeline failed so scripts can react
// without parsing stderr.
const (
	exitOK        = 0
	exitTransport = 1
	exitDecode    = 2
	exitVerify    = 3
	exitUsage     = 4
)

func main() {
	var (
		urlFlag     = flag.String("url", "", "Node endpoint (http, https, ws or wss)")
		file        = flag.String("file", "", "Read raw metadata bytes from a file instead of RPC")
		versionFlag = flag.Int("version", 0, "Explicit schema-version override (1, 2 or 3)")
		moduleFlag  = flag.String("module", "", "Print a single module as JSON")
		jsonOut     = flag.Bool("json", false, "Print the whole document as JSON")
		interactive = flag.Bool("i", false, "Interactive browser")
		configPath  = flag.String("config", "", "Path to a TOML config file")
		timeout     = flag.Duration("timeout", 0, "RPC timeout")
		verbose     = flag.Bool("v", false, "Verbose logging to stderr")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
	}
	// flags win over the config file
	if *urlFlag != "" {
		cfg.Endpoint = *urlFlag
	}
	if *timeout != 0 {
		cfg.Timeout = *timeout
	}
	if *versionFlag != 0 {
		v := metadata.Version(*versionFlag)
		switch v {
		case metadata.V1, metadata.V2, metadata.V3:
			cfg.Version = v
		default:
			fmt.Fprintf(os.Stderr, "Error: -version %d is not a known schema generation\n", *versionFlag)
			os.Exit(exitUsage)
		}
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			transport.SetLogger(log)
			defer log.Sync()
		}
	}

	os.Exit(run(cfg, *file, *moduleFlag, *jsonOut, *interactive))
}

func run(cfg config, file, module string, jsonOut, interactive bool) int {
	data, source, err := fetch(cfg, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return classifyExit(err)
	}

	var doc *metadata.Document
	if cfg.Version != 0 {
		doc, err = metadata.DecodeVersion(data, cfg.Version)
	} else {
		doc, err = metadata.Decode(data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return classifyExit(err)
	}

	if err := metadata.Verify(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return classifyExit(err)
	}

	switch {
	case interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			return exitUsage
		}
		if err := runInteractive(doc, source); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}

	case module != "":
		m, ok := doc.Module(module)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: module %q not found in metadata\n", module)
			return exitVerify
		}
		if err := printJSON(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}

	case jsonOut:
		if err := printJSON(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}

	default:
		printSummary(doc, source)
	}

	return exitOK
}

// fetch loads raw metadata bytes from a file or from the node.
func fetch(cfg config, file string) ([]byte, string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", errors.Transport(err, "read file")
		}
		return data, file, nil
	}

	client, err := transport.NewClient(cfg.Endpoint)
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if v, err := client.NodeVersion(ctx); err == nil {
		transport.Logger().Info("connected",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("node_version", v.String()))
	}

	data, err := client.Metadata(ctx)
	if err != nil {
		return nil, "", err
	}
	return data, cfg.Endpoint, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(doc *metadata.Document, source string) {
	fmt.Printf("Metadata: %s\n", source)
	fmt.Printf("Schema generation: %s\n", doc.Version)
	fmt.Printf("Modules: %d\n", len(doc.Modules))
	fmt.Printf("Types: %d\n", len(doc.Types))
	fmt.Printf("\n")
	for _, m := range doc.Modules {
		fmt.Printf("  %-24s calls=%-3d events=%-3d errors=%-3d storage=%d\n",
			m.Name, len(m.Calls), len(m.Events), len(m.Errors), len(m.Storage))
	}
	fmt.Printf("\nVerification passed.\n")
}

// classifyExit maps a pipeline error to its exit status by stage.
func classifyExit(err error) int {
	if err == nil {
		return exitOK
	}
	var serr *errors.Error
	if !stderrors.As(err, &serr) {
		return exitUsage
	}
	switch serr.Stage {
	case errors.StageTransport:
		return exitTransport
	case errors.StageDispatch, errors.StageDecode:
		return exitDecode
	case errors.StageVerify:
		return exitVerify
	default:
		return exitUsage
	}
}
