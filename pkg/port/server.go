// Package port serves a list.List over the RESP wire protocol, so any Redis
// client can drive the container interactively. The list itself is
// single-threaded; the handler is the caller responsible for mutual
// exclusion and serializes commands with one mutex.
package port

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/nobletooth/strand/pkg/list"
	"github.com/tidwall/redcon"
)

const respOk = "OK"

var address = flag.String("address", ":6380", "The ip:port to listen on for the RESP protocol.")

// command represents one parsed client command with its arguments.
type command struct {
	name string
	args []string
}

// output is the single reply a command produces, in RESP terms.
type output struct {
	closeConnection bool    // Closes the connection if true.
	writeNil        bool    // Writes a nil value if true.
	err             *string // Error to return if set.
	writeInt        *int    // Writes an integer value if set.
	writeBulk       *string // Writes a bulk string (payload) if set.
	writeLines      []string
	writeString     string // Writes a simple string value otherwise.
}

func closeConnection(msg string) output {
	return output{writeString: msg, closeConnection: true}
}

func writeNil() output {
	return output{writeNil: true}
}

func writeInt(i int) output {
	return output{writeInt: &i}
}

func writeBulk(s string) output {
	return output{writeBulk: &s}
}

func writeLines(lines []string) output {
	return output{writeLines: lines}
}

func writeStatus(s string) output {
	return output{writeString: s}
}

func writeError(err error) output {
	msg := "ERR " + err.Error()
	return output{err: &msg}
}

func wrongArgCount(name string) output {
	return writeError(fmt.Errorf("wrong number of arguments for '%s' command", name))
}

// listHandler executes commands against the shared list.
type listHandler struct {
	mu sync.Mutex // The list is not thread safe; one command runs at a time.
	l  *list.List
}

func newListHandler(l *list.List) (*listHandler, error) {
	if l == nil {
		return nil, errors.New("expected a non-nil list")
	}
	return &listHandler{l: l}, nil
}

// parseIndex reads an optional trailing index argument, defaulting to 0.
func parseIndex(args []string, at int) (int, error) {
	if at >= len(args) {
		return 0, nil
	}
	index, err := strconv.Atoi(args[at])
	if err != nil {
		return 0, errors.New("index is not an integer or out of range")
	}
	return index, nil
}

func (h *listHandler) handle(cmd command) output {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch cmd.name {
	case "PING":
		return writeStatus("PONG")
	case "QUIT":
		return closeConnection(respOk)
	case "LEN":
		return writeInt(h.l.Len())
	case "SEEK":
		if len(cmd.args) != 1 {
			return wrongArgCount("SEEK")
		}
		index, err := parseIndex(cmd.args, 0)
		if err != nil {
			return writeError(err)
		}
		if err := h.l.Seek(index); err != nil {
			return writeError(err)
		}
		return writeStatus(respOk)
	case "INSERT":
		// INSERT value [BEFORE|AFTER [index]], defaulting to BEFORE index 0.
		if len(cmd.args) < 1 || len(cmd.args) > 3 {
			return wrongArgCount("INSERT")
		}
		after := false
		if len(cmd.args) >= 2 {
			switch strings.ToUpper(cmd.args[1]) {
			case "AFTER":
				after = true
			case "BEFORE":
			default:
				return writeError(fmt.Errorf("expected BEFORE or AFTER, got '%s'", cmd.args[1]))
			}
		}
		index, err := parseIndex(cmd.args, 2)
		if err != nil {
			return writeError(err)
		}
		if _, err := h.l.Insert(cmd.args[0], after, index); err != nil {
			return writeError(err)
		}
		return writeStatus(respOk)
	case "MODIFY":
		if len(cmd.args) != 2 {
			return wrongArgCount("MODIFY")
		}
		index, err := parseIndex(cmd.args, 0)
		if err != nil {
			return writeError(err)
		}
		if _, err := h.l.Modify(cmd.args[1], index); err != nil {
			return writeError(err)
		}
		return writeStatus(respOk)
	case "REMOVE":
		if len(cmd.args) > 1 {
			return wrongArgCount("REMOVE")
		}
		index, err := parseIndex(cmd.args, 0)
		if err != nil {
			return writeError(err)
		}
		value, err := h.l.Remove(index)
		if err != nil {
			return writeError(err)
		}
		return writeBulk(value)
	case "STEP":
		if len(cmd.args) != 1 {
			return wrongArgCount("STEP")
		}
		var node *list.Node
		var err error
		switch strings.ToUpper(cmd.args[0]) {
		case "FORWARD":
			node, err = h.l.StepForward()
		case "BACK":
			node, err = h.l.StepBack()
		default:
			return writeError(fmt.Errorf("expected FORWARD or BACK, got '%s'", cmd.args[0]))
		}
		if err != nil {
			return writeError(err)
		}
		return writeBulk(node.Value())
	case "GET":
		if len(cmd.args) != 1 {
			return wrongArgCount("GET")
		}
		index, err := parseIndex(cmd.args, 0)
		if err != nil {
			return writeError(err)
		}
		node, err := h.l.FindByIndex(index)
		if err != nil {
			return writeError(err)
		}
		return writeBulk(node.Value())
	case "FIND":
		if len(cmd.args) != 1 {
			return wrongArgCount("FIND")
		}
		if node, err := h.l.FindByValue(cmd.args[0]); errors.Is(err, list.ErrValueNotFound) {
			return writeNil()
		} else if err != nil {
			return writeError(err)
		} else {
			return writeBulk(node.Value())
		}
	case "SHOW":
		// SHOW ALL or SHOW index [index ...].
		if len(cmd.args) < 1 {
			return wrongArgCount("SHOW")
		}
		var entries []list.Entry
		if len(cmd.args) == 1 && strings.EqualFold(cmd.args[0], "ALL") {
			entries = h.l.Collect(nil, true /*allNodes*/)
		} else {
			indexes := make([]int, 0, len(cmd.args))
			for _, arg := range cmd.args {
				index, err := strconv.Atoi(arg)
				if err != nil {
					return writeError(errors.New("index is not an integer or out of range"))
				}
				indexes = append(indexes, index)
			}
			entries = h.l.Collect(indexes, false /*allNodes*/)
		}
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, fmt.Sprintf("Node %d: %s", entry.Index, entry.Value))
		}
		return writeLines(lines)
	case "DUMP":
		if len(cmd.args) != 0 {
			return wrongArgCount("DUMP")
		}
		snapshot, err := Snapshot(h.l)
		if err != nil {
			return writeError(err)
		}
		return writeBulk(snapshot)
	default:
		return writeError(fmt.Errorf("unknown command '%s'", cmd.name))
	}
}

// writeOutput renders an output onto the client connection.
func writeOutput(conn redcon.Conn, out output) {
	switch {
	case out.closeConnection:
		conn.WriteString(out.writeString)
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close connection.", "error", err)
		}
	case out.err != nil:
		conn.WriteError(*out.err)
	case out.writeNil:
		conn.WriteNull()
	case out.writeInt != nil:
		conn.WriteInt(*out.writeInt)
	case out.writeBulk != nil:
		conn.WriteBulkString(*out.writeBulk)
	case out.writeLines != nil:
		conn.WriteArray(len(out.writeLines))
		for _, line := range out.writeLines {
			conn.WriteBulkString(line)
		}
	default:
		conn.WriteString(out.writeString)
	}
}

// RunServer serves the given list over RESP until the context is cancelled
// or the server fails.
func RunServer(ctx context.Context, l *list.List) error {
	if *address == "" {
		return errors.New("expected a non-empty --address flag")
	}

	handler, err := newListHandler(l)
	if err != nil {
		return fmt.Errorf("failed to create a list handler: %w", err)
	}

	server := redcon.NewServerNetwork("tcp" /*net*/, *address,
		/*handler*/ func(conn redcon.Conn, cmd redcon.Command) {
			parsed := command{name: strings.ToUpper(string(cmd.Args[0])), args: make([]string, len(cmd.Args)-1)}
			for i := 1; i < len(cmd.Args); i++ {
				parsed.args[i-1] = string(cmd.Args[i])
			}
			writeOutput(conn, handler.handle(parsed))
		},
		/*accept*/ func(conn redcon.Conn) bool {
			return true // Accept all connections.
		},
		/*close*/ func(conn redcon.Conn, err error) {
			if err != nil {
				slog.Debug("Connection closed.", "error", err)
			}
		})

	serverErrSignal := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			serverErrSignal <- err
		}
		close(serverErrSignal)
	}()

	select {
	case <-ctx.Done():
		if err := server.Close(); err != nil {
			return fmt.Errorf("failed to close the server: %w", err)
		}
	case err := <-serverErrSignal:
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	}

	return nil // Exited with no errors.
}
