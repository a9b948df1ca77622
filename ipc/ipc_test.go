package ipc

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nstehr/vimy/vimy-mapgen/model"
)

func TestEnvelopeFraming(t *testing.T) {
	env, err := NewEnvelope(TypeHello, HelloMessage{Client: "openra", Version: "1"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("WriteEnvelope failed: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[:4]); int(got) != buf.Len()-4 {
		t.Errorf("length prefix = %d, want %d", got, buf.Len()-4)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope failed: %v", err)
	}
	var hello HelloMessage
	if err := got.Decode(&hello); err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeHello || hello.Client != "openra" {
		t.Errorf("ReadEnvelope = %s %+v, want hello from openra", got.Type, hello)
	}
}

func TestReadEnvelopeRejectsBadLengths(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"empty", 0},
		{"oversized", MaxFrame + 1},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		binary.Write(&buf, binary.LittleEndian, tc.length)
		_, err := ReadEnvelope(&buf)
		if err == nil || !strings.Contains(err.Error(), "invalid message length") {
			t.Errorf("%s: ReadEnvelope error = %v, want invalid length", tc.name, err)
		}
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(10))
	buf.WriteString("{}")
	if _, err := ReadEnvelope(&buf); err == nil {
		t.Error("ReadEnvelope on a truncated payload should fail")
	}
}

func TestNewTerrainData(t *testing.T) {
	g := &model.TerrainGrid{Cols: 2, Rows: 1, CellW: 4, CellH: 8, Grid: []model.TerrainType{model.Water, model.Cliff}}
	td := NewTerrainData(g)
	if td.Cols != 2 || td.CellH != 8 || len(td.Grid) != 2 || td.Grid[0] != 1 || td.Grid[1] != 2 {
		t.Errorf("NewTerrainData = %+v", td)
	}
	if NewTerrainData(nil) != nil {
		t.Error("NewTerrainData(nil) should be nil")
	}
}

func TestConnectionDispatch(t *testing.T) {
	server, client := net.Pipe()
	c := NewConnection(server, nil)
	c.RegisterHandler(TypeHello, func(ctx context.Context, env Envelope) (*Envelope, error) {
		var h HelloMessage
		if err := env.Decode(&h); err != nil {
			return nil, err
		}
		if err := c.Send(TypeProgress, ProgressMessage{Stage: "greeting"}); err != nil {
			return nil, err
		}
		resp, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
		return &resp, err
	})
	c.RegisterHandler(TypeGenerate, func(ctx context.Context, env Envelope) (*Envelope, error) {
		return nil, errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.ReadLoop(ctx)
		close(done)
	}()

	send := func(msgType string, data any) {
		t.Helper()
		env, err := NewEnvelope(msgType, data)
		if err != nil {
			t.Fatal(err)
		}
		if err := WriteEnvelope(client, env); err != nil {
			t.Fatal(err)
		}
	}
	// Unknown types and failing handlers are skipped without a reply.
	send("unknown", struct{}{})
	send(TypeGenerate, GenerateRequest{})
	send(TypeHello, HelloMessage{Client: "test"})

	for _, want := range []string{TypeProgress, TypeAck} {
		env, err := ReadEnvelope(client)
		if err != nil {
			t.Fatalf("ReadEnvelope failed: %v", err)
		}
		if env.Type != want {
			t.Errorf("got %s, want %s", env.Type, want)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLoop did not stop after cancel")
	}
}
