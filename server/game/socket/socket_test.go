package socket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jacobpatterson1549/grab/game"
	"github.com/jacobpatterson1549/grab/game/message"
	"github.com/jacobpatterson1549/grab/game/player"
)

func TestNewSocket(t *testing.T) {
	testLog := log.New(io.Discard, "test", log.LstdFlags)
	timeFunc := func() int64 { return 0 }
	pn := player.Name("wilma")
	addr := mockAddr("wilma.pc")
	conn0 := &mockConn{}
	newSocketTests := []struct {
		wantOk     bool
		want       *Socket
		playerName player.Name
		Conn
		remoteAddr net.Addr
		log        *log.Logger
		Config
	}{
		{}, // no playerName
		{ // no conn
			playerName: pn,
		},
		{ // no remote addr
			playerName: pn,
			Conn:       conn0,
		},
		{ // no log
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
		},
		{ // no timeFunc
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
		},
		{ // bad ReadWait
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc: timeFunc,
			},
		},
		{ // bad WriteWait
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc: timeFunc,
				ReadWait: 2 * time.Hour,
			},
		},
		{ // bad PingPeriod
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc:  timeFunc,
				ReadWait:  2 * time.Hour,
				WriteWait: 2 * time.Hour,
			},
		},
		{ // bad HTTPPingPeriod
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc:   timeFunc,
				ReadWait:   2 * time.Hour,
				WriteWait:  2 * time.Hour,
				PingPeriod: 1 * time.Hour,
			},
		},
		{ // PingPeriod not less than ReadWait
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc:       timeFunc,
				ReadWait:       1 * time.Hour,
				WriteWait:      2 * time.Hour,
				PingPeriod:     1 * time.Hour,
				HTTPPingPeriod: 15 * time.Hour,
			},
		},
		{ // ok
			playerName: pn,
			Conn:       conn0,
			remoteAddr: addr,
			log:        testLog,
			Config: Config{
				TimeFunc:       timeFunc,
				ReadWait:       2 * time.Hour,
				WriteWait:      2 * time.Hour,
				PingPeriod:     1 * time.Hour,
				HTTPPingPeriod: 15 * time.Hour,
			},
			want: &Socket{
				log:        testLog,
				PlayerName: pn,
				Addr:       "wilma.pc",
				Conn:       conn0,
				Config: Config{
					ReadWait:       2 * time.Hour,
					WriteWait:      2 * time.Hour,
					PingPeriod:     1 * time.Hour,
					HTTPPingPeriod: 15 * time.Hour,
				},
			},
			wantOk: true,
		},
	}
	for i, test := range newSocketTests {
		if test.Conn != nil {
			test.Conn.(*mockConn).RemoteAddrFunc = func() net.Addr {
				return test.remoteAddr
			}
		}
		got, err := test.Config.NewSocket(test.log, test.playerName, test.Conn)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		default:
			got.TimeFunc = nil // funcs cannot be compared
			if !reflect.DeepEqual(test.want, got) {
				t.Errorf("Test %v: sockets not equal:\nwanted: %v\ngot:    %v", i, test.want, got)
			}
		}
	}
}

func TestRunSocket(t *testing.T) {
	runSocketTests := []struct {
		callCancelFunc bool
	}{
		{},
		{
			callCancelFunc: true,
		},
	}
	for i, test := range runSocketTests {
		readBlocker := make(chan struct{})
		conn := mockConn{
			SetReadDeadlineFunc: func(t time.Time) error {
				return nil
			},
			SetPongHandlerFunc: func(h func(appData string) error) {
				// NOOP
			},
			ReadMessageFunc: func(m *message.Message) error {
				<-readBlocker
				return errors.New("socket close")
			},
			IsNormalCloseFunc: func(err error) bool {
				return true
			},
			CloseFunc: func() error {
				return nil
			},
			WriteCloseFunc: func(reason string) error {
				return nil
			},
			SetWriteDeadlineFunc: func(t time.Time) error {
				return nil
			},
		}
		s := Socket{
			log:        log.New(io.Discard, "test", log.LstdFlags),
			PlayerName: "wilma",
			Addr:       "some.addr",
			Conn:       &conn,
			Config: Config{
				TimeFunc:       func() int64 { return 0 },
				ReadWait:       2 * time.Hour,
				WriteWait:      2 * time.Hour,
				PingPeriod:     1 * time.Hour,
				HTTPPingPeriod: 3 * time.Hour,
			},
		}
		ctx := context.Background()
		ctx, cancelFunc := context.WithCancel(ctx)
		var wg sync.WaitGroup
		in := make(chan message.Message)
		out := make(chan message.Message, 1)
		s.Run(ctx, &wg, in, out)
		if test.callCancelFunc {
			cancelFunc()
		}
		close(readBlocker)
		switch {
		case test.callCancelFunc:
			wg.Wait()
			if len(out) != 0 {
				t.Errorf("Test %v: wanted no messages sent back on out channel", i)
			}
		default:
			wantM := message.Message{
				Type:       message.SocketClose,
				PlayerName: "wilma",
				Addr:       "some.addr",
			}
			gotM := <-out
			if !reflect.DeepEqual(wantM, gotM) {
				t.Errorf("Test %v: messages not equal:\nwanted: %v\ngot:    %v", i, wantM, gotM)
			}
		}
		cancelFunc()
		wg.Wait()
	}
}

func TestReadMessagesSync(t *testing.T) {
	pn := player.Name("wilma")
	addr := message.Addr("wilma.pc.addr")
	readMessagesTests := []struct {
		callCancelFunc     bool
		setReadDeadlineErr error
		readMessageErr     error
		isNormalCloseErr   bool
		gameMissing        bool
		debug              bool
		wantOk             bool
	}{
		{
			callCancelFunc: true,
		},
		{
			setReadDeadlineErr: errors.New("could not set read deadline"),
		},
		{
			readMessageErr:   errors.New("normal close"),
			isNormalCloseErr: true,
		},
		{
			readMessageErr: errors.New("unexpected close"),
		},
		{
			gameMissing: true,
		},
		{
			wantOk: true,
		},
		{
			wantOk: true,
			debug:  true,
		},
	}
	for i, test := range readMessagesTests {
		setPongHandlerFuncCalled := false
		normalMessageInfo := "normal message"
		j := 0
		conn := mockConn{
			ReadMessageFunc: func(m *message.Message) error {
				if test.readMessageErr != nil {
					return test.readMessageErr
				}
				src := message.Message{
					Info: normalMessageInfo,
				}
				if !test.gameMissing {
					src.Game = &game.Info{}
				}
				mockConnReadMessage(m, src)
				j++
				if test.wantOk && j > 1 {
					test.isNormalCloseErr = true
					return errors.New("ok read cancel") // only read one message
				}
				return nil
			},
			SetReadDeadlineFunc: func(t time.Time) error {
				return test.setReadDeadlineErr
			},
			IsNormalCloseFunc: func(err error) bool {
				return test.isNormalCloseErr
			},
			CloseFunc: func() error {
				return nil
			},
			WriteCloseFunc: func(reason string) error {
				return nil
			},
			SetPongHandlerFunc: func(h func(appData string) error) {
				setPongHandlerFuncCalled = true
			},
		}
		var bb bytes.Buffer
		s := Socket{
			log:        log.New(&bb, "", 0),
			PlayerName: pn,
			Addr:       addr,
			Conn:       &conn,
			Config: Config{
				Debug:    test.debug,
				TimeFunc: func() int64 { return 0 },
			},
		}
		ctx := context.Background()
		ctx, cancelFunc := context.WithCancel(ctx)
		wantNumMessagesRead := 1 // the last message should be a socket close
		switch {
		case test.callCancelFunc:
			wantNumMessagesRead--
			cancelFunc()
		case test.wantOk:
			wantNumMessagesRead++
		}
		out := make(chan message.Message, wantNumMessagesRead)
		var wg sync.WaitGroup
		wg.Add(1)
		go s.readMessagesSync(ctx, &wg, out)
		wg.Wait()
		gotMessages := make([]message.Message, wantNumMessagesRead)
		for j := 0; j < wantNumMessagesRead; j++ {
			gotMessages[j] = <-out
		}
		switch {
		case len(out) != 0:
			t.Errorf("Test %v: extra messages exist on out channel", i)
		case test.callCancelFunc:
			// NOOP
		case gotMessages[len(gotMessages)-1].Type != message.SocketClose,
			gotMessages[len(gotMessages)-1].PlayerName != pn,
			gotMessages[len(gotMessages)-1].Addr != addr:
			t.Errorf("Test %v: wanted last message to be socket close, got %v", i, gotMessages[len(gotMessages)-1])
		case test.setReadDeadlineErr == nil && !setPongHandlerFuncCalled:
			t.Errorf("Test %v: wanted pong handler to be set", i)
		case !test.wantOk:
			if bb.Len() == 0 && !test.isNormalCloseErr {
				t.Errorf("Test %v: wanted message to be logged", i)
			}
		case (bb.Len() != 0) != test.debug:
			t.Errorf("Test %v: wanted message to be logged (%v), got '%v'", i, test.debug, bb.String())
		case gotMessages[0].Info != normalMessageInfo:
			t.Errorf("Test %v: wanted first message to be normal message, got %v", i, gotMessages[0])
		case gotMessages[0].PlayerName != pn, gotMessages[0].Addr != addr:
			t.Errorf("Test %v: wanted player name and address to be set on read message, got %v", i, gotMessages[0])
		}
		cancelFunc()
	}
}

func TestWriteMessagesSync(t *testing.T) {
	writeMessagesTests := []struct {
		callCancelFunc      bool
		inClosed            bool
		m                   *message.Message
		setWriteDeadlineErr error
		writeErr            error
		wantWritten         bool
	}{
		{
			callCancelFunc: true,
		},
		{
			inClosed: true,
		},
		{ // normal message
			m:           &message.Message{Type: message.GameChat},
			wantWritten: true,
		},
		{ // player remove closes socket after writing
			m:           &message.Message{Type: message.PlayerRemove},
			wantWritten: true,
		},
		{ // write deadline error
			m:                   &message.Message{Type: message.GameChat},
			setWriteDeadlineErr: errors.New("could not set write deadline"),
		},
		{ // write error
			m:        &message.Message{Type: message.GameChat},
			writeErr: errors.New("could not write message"),
		},
	}
	for i, test := range writeMessagesTests {
		var gotM *message.Message
		closed := false
		conn := mockConn{
			WriteMessageFunc: func(m message.Message) error {
				if test.writeErr != nil {
					return test.writeErr
				}
				gotM = &m
				return nil
			},
			SetWriteDeadlineFunc: func(t time.Time) error {
				return test.setWriteDeadlineErr
			},
			WriteCloseFunc: func(reason string) error {
				return nil
			},
			CloseFunc: func() error {
				closed = true
				return nil
			},
		}
		s := Socket{
			log:        log.New(io.Discard, "", 0),
			PlayerName: "wilma",
			Addr:       "wilma.pc.addr",
			Conn:       &conn,
			Config: Config{
				TimeFunc:       func() int64 { return 0 },
				WriteWait:      2 * time.Hour,
				PingPeriod:     1 * time.Hour,
				HTTPPingPeriod: 3 * time.Hour,
			},
		}
		ctx := context.Background()
		ctx, cancelFunc := context.WithCancel(ctx)
		in := make(chan message.Message, 1)
		var wg sync.WaitGroup
		wg.Add(1)
		switch {
		case test.callCancelFunc:
			cancelFunc()
		case test.inClosed:
			close(in)
		default:
			in <- *test.m
			if test.wantWritten && test.m.Type != message.PlayerRemove {
				close(in) // stop the write loop after the message is written
			}
		}
		s.writeMessagesSync(ctx, &wg, in)
		wg.Wait()
		switch {
		case !closed:
			t.Errorf("Test %v: wanted connection to be closed when writing stops", i)
		case test.wantWritten:
			if gotM == nil || gotM.Type != test.m.Type {
				t.Errorf("Test %v: wanted message with type %v to be written, got %v", i, test.m.Type, gotM)
			}
		case gotM != nil:
			t.Errorf("Test %v: wanted no message to be written, got %v", i, gotM)
		}
		cancelFunc()
	}
}
