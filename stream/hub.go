// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stream forwards driver events to websocket clients and control messages back to the driver
package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/gorilla/websocket"
	"github.com/mattemangia/CTS-sub011/triax"
	"github.com/sirupsen/logrus"
)

// Controller defines the control calls accepted from remote clients
type Controller interface {
	Pause() error
	Resume() error
	Cancel() error
	ContinueAfterFailure() error
	State() triax.RunState
}

// message types
const (
	StateMsg = "state" // current state; sent on connection and on request
	EventMsg = "event" // driver event
	ReplyMsg = "reply" // reply to a command
)

// Message is sent to clients
type Message struct {
	Type  string       `json:"type"`            // StateMsg, EventMsg or ReplyMsg
	State string       `json:"state,omitempty"` // run state
	Cmd   string       `json:"cmd,omitempty"`   // command being replied
	Error string       `json:"error,omitempty"` // command error
	Kind  string       `json:"kind,omitempty"`  // kind of event
	Event *triax.Event `json:"event,omitempty"` // event
}

// Command is received from clients
//  Cmd: "pause", "resume", "cancel", "continue" or "state"
type Command struct {
	Cmd string `json:"cmd"`
}

// Hub holds the connected clients
type Hub struct {
	Log          *logrus.Entry // logger
	WriteTimeout time.Duration // deadline of each write

	ctl      Controller
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*sync.Mutex // connection => write lock
}

// NewHub returns a new hub forwarding commands to ctl
func NewHub(ctl Controller, logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		Log:          logger.WithField("component", "stream"),
		WriteTimeout: 5 * time.Second,
		ctl:          ctl,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// ServeHTTP upgrades the connection, sends the current state and handles commands until the client leaves
func (o *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := o.upgrader.Upgrade(w, r, nil)
	if err != nil {
		o.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// register
	wmu := new(sync.Mutex)
	o.mu.Lock()
	o.clients[conn] = wmu
	o.mu.Unlock()
	defer o.remove(conn)
	o.Log.WithField("remote", conn.RemoteAddr().String()).Debug("client connected")

	// initial state
	err = o.write(conn, wmu, Message{Type: StateMsg, State: o.ctl.State().String()})
	if err != nil {
		return
	}

	// commands
	for {
		var cmd Command
		err = conn.ReadJSON(&cmd)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				o.Log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		reply := o.Handle(cmd)
		err = o.write(conn, wmu, reply)
		if err != nil {
			return
		}
	}
}

// Handle executes a command and returns the reply
func (o *Hub) Handle(cmd Command) (reply Message) {
	var err error
	switch cmd.Cmd {
	case "pause":
		err = o.ctl.Pause()
	case "resume":
		err = o.ctl.Resume()
	case "cancel":
		err = o.ctl.Cancel()
	case "continue":
		err = o.ctl.ContinueAfterFailure()
	case "state":
	default:
		err = chk.Err("command %q is invalid", cmd.Cmd)
	}
	reply = Message{Type: ReplyMsg, Cmd: cmd.Cmd, State: o.ctl.State().String()}
	if err != nil {
		reply.Error = err.Error()
		o.Log.WithField("cmd", cmd.Cmd).WithError(err).Info("command rejected")
	}
	return
}

// Pump broadcasts events until the channel is closed
func (o *Hub) Pump(events <-chan triax.Event) {
	for ev := range events {
		e := ev
		o.Broadcast(Message{Type: EventMsg, Kind: e.Kind.String(), State: o.ctl.State().String(), Event: &e})
	}
}

// Broadcast sends msg to all clients; clients failing to receive it are dropped
func (o *Hub) Broadcast(msg Message) {
	o.mu.RLock()
	var failed []*websocket.Conn
	for conn, wmu := range o.clients {
		if err := o.write(conn, wmu, msg); err != nil {
			failed = append(failed, conn)
		}
	}
	o.mu.RUnlock()
	for _, conn := range failed {
		o.Log.WithField("remote", conn.RemoteAddr().String()).Warn("dropping client")
		conn.Close()
		o.remove(conn)
	}
}

// NumClients returns the number of connected clients
func (o *Hub) NumClients() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.clients)
}

// Close closes all connections
func (o *Hub) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for conn := range o.clients {
		conn.Close()
		delete(o.clients, conn)
	}
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func (o *Hub) write(conn *websocket.Conn, wmu *sync.Mutex, msg Message) error {
	wmu.Lock()
	defer wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(o.WriteTimeout))
	return conn.WriteJSON(msg)
}

func (o *Hub) remove(conn *websocket.Conn) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.clients, conn)
}
