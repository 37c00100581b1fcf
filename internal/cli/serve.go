package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/eventlog"
	"github.com/lixenwraith/eventlog/compat"
	"github.com/lixenwraith/eventlog/document"
)

var (
	serveAddr      string
	serveHeartbeat time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the log directory over HTTP",
	Long: `Start a read-only HTTP viewer for the log directory.

Endpoints:
  GET /files              log files and archives in the directory
  GET /records?file=NAME  records of a file in bracketed form
  GET /stats              logger counters

Server errors are written to the diagnostic channels.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	flags.DurationVar(&serveHeartbeat, "heartbeat", 0, "interval of stats lines in DebugInfo (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := openLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	viewer := newViewerHandler(logger)
	server := &fasthttp.Server{
		Handler: viewer.handle,
		Logger: compat.NewFastHTTPAdapter(logger,
			compat.WithLevelDetector(serverLevelDetector)),
		Name:              "eventlog",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReduceMemoryUsage: true,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveHeartbeat > 0 {
		go heartbeat(ctx, logger, serveHeartbeat)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(serveAddr)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", logger.GetConfig().Directory, serveAddr)
	logger.DebugInfof("viewer listening on %s", serveAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := server.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.DebugInfo("viewer stopped")
	return nil
}

func heartbeat(ctx context.Context, logger *eventlog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.LogStats()
		}
	}
}

func serverLevelDetector(msg string) compat.Level {
	if strings.Contains(msg, "connection cannot be served") {
		return compat.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return compat.LevelError
	}
	return compat.DetectLogLevel(msg)
}

// viewerHandler serves the files of one log directory
type viewerHandler struct {
	logger *eventlog.Logger
}

func newViewerHandler(logger *eventlog.Logger) *viewerHandler {
	return &viewerHandler{logger: logger}
}

func (h *viewerHandler) handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	switch string(ctx.Path()) {
	case "/files":
		h.files(ctx)
	case "/records":
		h.records(ctx)
	case "/stats":
		h.stats(ctx)
	default:
		ctx.NotFound()
	}

	h.logger.TraceDebugf("%s %s status %d", ctx.Method(), ctx.RequestURI(), ctx.Response.StatusCode())
}

func (h *viewerHandler) files(ctx *fasthttp.RequestCtx) {
	cfg := h.logger.GetConfig()

	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		h.fail(ctx, fasthttp.StatusInternalServerError, err)
		return
	}

	names := []string{}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), eventlog.ArchiveExtension)
		if !e.IsDir() && filepath.Ext(name) == "."+cfg.Extension {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	h.writeJSON(ctx, names)
}

func (h *viewerHandler) records(ctx *fasthttp.RequestCtx) {
	cfg := h.logger.GetConfig()

	name := string(ctx.QueryArgs().Peek("file"))
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		ctx.Error("invalid file name", fasthttp.StatusBadRequest)
		return
	}

	path := filepath.Join(cfg.Directory, name)
	if _, err := os.Stat(path); err != nil {
		ctx.NotFound()
		return
	}

	docs, err := eventlog.ReadRecords(path, cfg.Encoding)
	if err != nil {
		h.fail(ctx, fasthttp.StatusUnprocessableEntity, err)
		return
	}

	opts := document.BracketOptions{}
	var sb strings.Builder
	sb.WriteString("[")
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
		sb.WriteString(doc.RenderBracketed(opts))
	}
	sb.WriteString("\n]\n")

	ctx.SetContentType("application/json")
	ctx.SetBodyString(sb.String())
}

func (h *viewerHandler) stats(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, h.logger.Stats())
}

func (h *viewerHandler) writeJSON(ctx *fasthttp.RequestCtx, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.fail(ctx, fasthttp.StatusInternalServerError, err)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func (h *viewerHandler) fail(ctx *fasthttp.RequestCtx, status int, err error) {
	h.logger.TraceErrorf("viewer %s: %v", ctx.Path(), err)
	ctx.Error(err.Error(), status)
}
