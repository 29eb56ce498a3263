// cmd/getter/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MathiasJens3n/modbus-getter/internal/config"
	"github.com/MathiasJens3n/modbus-getter/internal/flow"
	mbconn "github.com/MathiasJens3n/modbus-getter/internal/modbus"
	"github.com/MathiasJens3n/modbus-getter/internal/node"
	mqttsink "github.com/MathiasJens3n/modbus-getter/internal/sink/mqtt"
	"github.com/MathiasJens3n/modbus-getter/internal/status"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: getter <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Shared connections
	// --------------------

	conns := make(map[string]*mbconn.Conn)

	for _, cc := range cfg.Getter.Connections {
		conn, err := mbconn.New(mbconn.Config{
			ID:        cc.ID,
			Transport: cc.Transport,
			Endpoint:  cc.Endpoint,
			Timeout:   time.Duration(cc.TimeoutMs) * time.Millisecond,
			BaudRate:  cc.BaudRate,
			DataBits:  cc.DataBits,
			Parity:    cc.Parity,
			StopBits:  cc.StopBits,
		}, logger)
		if err != nil {
			log.Fatalf("connection build failed (conn=%s): %v", cc.ID, err)
		}

		// A failed dial is not fatal: gates stay closed until the
		// transport comes up on a later connect.
		if err := conn.Connect(); err != nil {
			logger.Warn("initial connect failed", "conn", cc.ID, "err", err)
		}

		conns[cc.ID] = conn
	}

	resolve := func(ref string) node.Conn {
		conn, ok := conns[ref]
		if !ok {
			return nil
		}
		return conn
	}

	// --------------------
	// Downstream emitters
	// --------------------

	emitters := flow.MultiEmitter{
		flow.EmitterFunc(func(msg flow.Message) error {
			logger.Info("emit", "topic", msg.Topic, "payload", msg.Payload)
			return nil
		}),
	}

	if cfg.Getter.Mqtt != nil {
		sink, err := mqttsink.New(mqttsink.Config{
			Broker:      cfg.Getter.Mqtt.Broker,
			ClientID:    cfg.Getter.Mqtt.ClientID,
			TopicPrefix: cfg.Getter.Mqtt.TopicPrefix,
		})
		if err != nil {
			log.Fatalf("mqtt sink failed: %v", err)
		}
		emitters = append(emitters, sink)
	}

	// --------------------
	// Nodes + trigger tickers
	// --------------------

	var nodes []*node.Node

	for _, nc := range cfg.Getter.Nodes {
		n, err := node.New(node.Config{
			ID:                   nc.ID,
			Name:                 nc.Name,
			Server:               nc.Server,
			UnitID:               nc.UnitID,
			DataType:             nc.DataType,
			Address:              nc.Address,
			Quantity:             nc.Quantity,
			Delay:                time.Duration(nc.StartDelayUnits) * time.Second,
			ShowStatusActivities: nc.ShowStatusActivities,
			ShowErrors:           nc.ShowErrors,
			ShowWarnings:         nc.ShowWarnings,
			EmptyMsgOnFail:       nc.EmptyMsgOnFail,
			KeepMsgProps:         nc.KeepMsgProps,
		}, emitters, resolve, node.Options{
			Logger: logger,
			Status: func(id string) node.StatusFunc {
				return func(s status.Snapshot) {
					logger.Info("status", "node", id, "state", status.Encode(s))
				}
			}(nc.ID),
		})
		if err != nil {
			log.Fatalf("node build failed (node=%s): %v", nc.ID, err)
		}

		nodes = append(nodes, n)

		// Attach to the shared connection.
		n.Trigger(flow.Message{Payload: map[string]any{"connection": true}})

		interval := time.Duration(nc.TriggerIntervalMs) * time.Millisecond
		if interval <= 0 {
			interval = time.Second
		}

		go runTriggers(ctx, n, interval)
	}

	<-ctx.Done()

	// --------------------
	// Drain: close every node, waiting for deregistration
	// --------------------

	var wg sync.WaitGroup
	for _, n := range nodes {
		wg.Add(1)
		n.Close(wg.Done)
	}
	wg.Wait()

	for id, conn := range conns {
		if err := conn.Close(); err != nil {
			logger.Warn("connection close failed", "conn", id, "err", err)
		}
	}
}

// runTriggers drives one node with clock-generated read triggers.
func runTriggers(ctx context.Context, n *node.Node, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			n.Trigger(flow.Message{Payload: t.UnixMilli()})
		}
	}
}
