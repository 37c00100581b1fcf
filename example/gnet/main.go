// FILE: example/gnet/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/eventlog"
	"github.com/lixenwraith/eventlog/compat"
	"github.com/lixenwraith/eventlog/record"
)

// echoServer records connection lifecycle events in the application event log
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *eventlog.Logger
	engine gnet.Engine
}

func (es *echoServer) OnBoot(eng gnet.Engine) gnet.Action {
	es.engine = eng
	es.output(record.New(os.Getpid(), record.EventAppStart, "echo server started"))
	return gnet.None
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.output(record.New(os.Getpid(), record.CategoryAppEvent, "connection opened",
		record.StringCell(record.DetailMessage, c.RemoteAddr().String())))
	return nil, gnet.None
}

func (es *echoServer) OnClose(c gnet.Conn, err error) gnet.Action {
	rec := record.New(os.Getpid(), record.CategoryAppEvent, "connection closed",
		record.StringCell(record.DetailMessage, c.RemoteAddr().String()))
	if err != nil {
		rec.AddDetail(record.StringCell(record.DetailErrorCode, err.Error()))
	}
	es.output(rec)
	return gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func (es *echoServer) OnShutdown(eng gnet.Engine) {
	es.output(record.New(os.Getpid(), record.EventAppExit, "echo server stopped"))
}

func (es *echoServer) output(rec record.Record) {
	if err := es.logger.OutputEvent(rec); err != nil {
		es.logger.TraceErrorf("record not stored: %v", err)
	}
}

func main() {
	dir := flag.String("dir", "./log", "log directory")
	addr := flag.String("addr", "tcp://127.0.0.1:9000", "listen address")
	flag.Parse()

	logger, err := eventlog.NewBuilder().
		Directory(*dir).
		Encoding(eventlog.EncodingUTF8).
		WriteMode(eventlog.WriteModeInstantly).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	gnetAdapter := compat.NewStructuredGnetAdapter(logger)
	server := &echoServer{logger: logger}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		server.engine.Stop(context.Background())
	}()

	err = gnet.Run(
		server,
		*addr,
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.TraceErrorf("gnet stopped: %v", err)
	}
}
