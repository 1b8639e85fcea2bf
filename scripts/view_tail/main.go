package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/lanchat/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("view_tail: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8090/ws", "UI bridge WebSocket address")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	fmt.Printf("Following %s\n", *addr)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	printed := 0
	status := ""
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Type {
		case proto.OutboundTypeUpdate:
			raw, err := json.Marshal(outbound.Data)
			if err != nil {
				log.Printf("marshal outbound data: %v", err)
				continue
			}
			var update proto.Update
			if err := json.Unmarshal(raw, &update); err != nil {
				log.Printf("unmarshal update: %v", err)
				continue
			}
			if update.Session.StatusText != status {
				status = update.Session.StatusText
				fmt.Printf("* %s\n", status)
			}
			if len(update.View) < printed {
				fmt.Println("--- log reset ---")
				printed = 0
			}
			for _, msg := range update.View[printed:] {
				fmt.Printf("%s: %s\n", msg.Sender, msg.Content)
			}
			printed = len(update.View)
		case proto.OutboundTypeError:
			if outbound.Error != nil {
				fmt.Printf("! %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			}
		case proto.OutboundTypeAck:
		default:
			fmt.Printf("type=%s data=%v\n", outbound.Type, outbound.Data)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			seq++
			payload, err := json.Marshal(proto.SendData{Content: line, Ref: strconv.Itoa(seq)})
			if err != nil {
				log.Printf("marshal send: %v", err)
				return
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSend, Data: payload}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
