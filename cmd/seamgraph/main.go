package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/seamgraph/seamgraph/internal/composition"
	"github.com/seamgraph/seamgraph/internal/eventbus"
	"github.com/seamgraph/seamgraph/internal/gateway"
	"github.com/seamgraph/seamgraph/internal/httptp"
	"github.com/seamgraph/seamgraph/internal/language"
	"github.com/seamgraph/seamgraph/internal/logging"
	"github.com/seamgraph/seamgraph/internal/otel"
)

const rootUsage = `seamgraph — federated GraphQL gateway

USAGE:
  seamgraph <command> [flags]

COMMANDS:
  serve            Run the HTTP gateway over the composed supergraph
  compose          Compose subgraph schemas into a supergraph SDL
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -subgraph <name>=<url>              Subgraph GraphQL endpoint. Repeatable; repeat a
                                      name to add replica endpoints
  -schema <name>=<file>               Subgraph SDL file. Repeatable; one per subgraph,
                                      order determines composition precedence
  -server.addr <addr>                 HTTP listen address (default: :8080)
  -server.pretty                      Pretty-print JSON responses
  -server.timeout <duration>          Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>            Max request body size (default: 0 = unlimited)
  -server.cors-origin <origin>        Allowed CORS origin. Repeatable
  -server.forward-header <name>       Forward HTTP header to subgraph fetches. Repeatable
  -plan.cache-size <n>                Query plan cache entries (default: 512)
  -transport.request-timeout <dur>    Subgraph fetch timeout, e.g. 3s (default: 3s)
  -transport.max-conns-per-host <n>   Max conns per subgraph host (default: 4)
  -otel.endpoint <addr>               OTLP collector endpoint
  -otel.service <name>                OpenTelemetry service name (default: seamgraph)
`

const composeUsage = `compose FLAGS:
  -schema <name>=<file>  Subgraph SDL file. Repeatable; order determines precedence
  -out <file>            Write composed SDL to file (default: stdout)
  -owners                Print the field ownership table instead of SDL
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("seamgraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "compose":
		return cmdCompose(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "compose":
		fmt.Print(composeUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// pairFlag collects repeatable name=value mappings preserving first
// appearance order of each name.
type pairFlag struct {
	order []string
	m     map[string][]string
}

func (p *pairFlag) String() string { return "" }

func (p *pairFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid mapping %q", v)
	}
	name := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if name == "" || value == "" {
		return fmt.Errorf("invalid mapping %q", v)
	}
	if p.m == nil {
		p.m = map[string][]string{}
	}
	if _, seen := p.m[name]; !seen {
		p.order = append(p.order, name)
	}
	p.m[name] = append(p.m[name], value)
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// loadSubgraphs reads the SDL files named by schemas and pairs them
// with their endpoints, in flag order.
func loadSubgraphs(schemas, endpoints *pairFlag) ([]composition.Subgraph, error) {
	if len(schemas.order) == 0 {
		return nil, fmt.Errorf("at least one -schema mapping is required")
	}
	subgraphs := make([]composition.Subgraph, 0, len(schemas.order))
	for _, name := range schemas.order {
		files := schemas.m[name]
		if len(files) != 1 {
			return nil, fmt.Errorf("subgraph %q has %d schema files, want 1", name, len(files))
		}
		sdl, err := os.ReadFile(files[0])
		if err != nil {
			return nil, fmt.Errorf("read schema for %q: %w", name, err)
		}
		url := ""
		if endpoints != nil && len(endpoints.m[name]) > 0 {
			url = endpoints.m[name][0]
		}
		subgraphs = append(subgraphs, composition.Subgraph{Name: name, URL: url, SDL: string(sdl)})
	}
	return subgraphs, nil
}

func cmdServe(args []string) error {
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(0)
	cacheSize := 512
	requestTimeout := 3 * time.Second
	maxConns := 4
	otelEndpoint := ""
	otelService := "seamgraph"
	var schemas, endpoints pairFlag
	var corsOrigins, forwardHeaders stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&endpoints, "subgraph", "Subgraph GraphQL endpoint")
	fs.Var(&schemas, "schema", "Subgraph SDL file")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "server.max-body", maxBody, "Max request body size")
	fs.Var(&corsOrigins, "server.cors-origin", "Allowed CORS origin")
	fs.Var(&forwardHeaders, "server.forward-header", "Forward HTTP header to subgraph fetches")
	fs.IntVar(&cacheSize, "plan.cache-size", cacheSize, "Query plan cache entries")
	fs.DurationVar(&requestTimeout, "transport.request-timeout", requestTimeout, "Subgraph fetch timeout")
	fs.IntVar(&maxConns, "transport.max-conns-per-host", maxConns, "Max conns per subgraph host")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	subgraphs, err := loadSubgraphs(&schemas, &endpoints)
	if err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	for _, sg := range subgraphs {
		if sg.URL == "" {
			fmt.Fprint(os.Stderr, serveUsage)
			return fmt.Errorf("no -subgraph endpoint for %q", sg.Name)
		}
	}

	graph, err := composition.Compose(subgraphs)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	providers := map[string][]string{}
	for name, urls := range endpoints.m {
		providers[name] = urls
	}
	provider := httptp.NewStaticEndpoints(providers)

	eventbus.Use(eventbus.New())
	logger, err := logging.Setup(nil)
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	trOpts := []httptp.Option{
		httptp.WithProvider(provider),
		httptp.WithMaxConnsPerHost(maxConns),
		httptp.WithForwardHeaders(forwardHeaders...),
	}
	if requestTimeout > 0 {
		trOpts = append(trOpts, httptp.WithRequestTimeout(requestTimeout))
	}
	transport := httptp.New(trOpts...)
	defer func() { _ = transport.Close() }()

	planner, err := gateway.NewPlanner(graph, cacheSize)
	if err != nil {
		return fmt.Errorf("planner init: %w", err)
	}
	exec := gateway.NewExecutor(planner, transport)

	var sopts []gateway.Option
	if pretty {
		sopts = append(sopts, gateway.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, gateway.WithTimeout(timeout))
	}
	if maxBody > 0 {
		sopts = append(sopts, gateway.WithMaxBodyBytes(maxBody))
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, gateway.WithCORS(corsOrigins...))
	}
	h := gateway.New(exec, sopts...)

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("gateway listening on %s (%d subgraphs)", addr, len(subgraphs))
	return http.ListenAndServe(addr, mux)
}

func cmdCompose(args []string) error {
	outFile := ""
	owners := false
	var schemas pairFlag

	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemas, "schema", "Subgraph SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write composed SDL to file")
	fs.BoolVar(&owners, "owners", owners, "Print the field ownership table")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, composeUsage)
		return err
	}

	subgraphs, err := loadSubgraphs(&schemas, nil)
	if err != nil {
		fmt.Fprint(os.Stderr, composeUsage)
		return err
	}
	graph, err := composition.Compose(subgraphs)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if owners {
		keys := make([]composition.FieldKey, 0, len(graph.Owners))
		for k := range graph.Owners {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].TypeName != keys[j].TypeName {
				return keys[i].TypeName < keys[j].TypeName
			}
			return keys[i].FieldName < keys[j].FieldName
		})
		for _, k := range keys {
			fmt.Printf("%s.%s\t%s\n", k.TypeName, k.FieldName, graph.Owners[k])
		}
		return nil
	}

	sdl := language.FormatSchemaDocument(graph.Document)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
