package port

import (
	"testing"

	"github.com/nobletooth/strand/pkg/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHandler builds a handler around a list seeded with the given values.
func newTestHandler(t *testing.T, values ...string) *listHandler {
	t.Helper()
	l, err := list.New(values...)
	require.NoError(t, err)
	handler, err := newListHandler(l)
	require.NoError(t, err)
	return handler
}

func assertStatus(t *testing.T, out output, want string) {
	t.Helper()
	require.Nil(t, out.err, "Unexpected error reply")
	assert.Equal(t, want, out.writeString)
}

func assertBulk(t *testing.T, out output, want string) {
	t.Helper()
	require.Nil(t, out.err, "Unexpected error reply")
	require.NotNil(t, out.writeBulk, "Expected a bulk string reply")
	assert.Equal(t, want, *out.writeBulk)
}

func assertInt(t *testing.T, out output, want int) {
	t.Helper()
	require.Nil(t, out.err, "Unexpected error reply")
	require.NotNil(t, out.writeInt, "Expected an integer reply")
	assert.Equal(t, want, *out.writeInt)
}

func assertErrContains(t *testing.T, out output, want string) {
	t.Helper()
	require.NotNil(t, out.err, "Expected an error reply")
	assert.Contains(t, *out.err, want)
}

func TestNewListHandler_NilList(t *testing.T) {
	_, err := newListHandler(nil)
	assert.Error(t, err)
}

func TestHandle_Basics(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	assertStatus(t, handler.handle(command{name: "PING"}), "PONG")
	assertInt(t, handler.handle(command{name: "LEN"}), 3)

	quit := handler.handle(command{name: "QUIT"})
	assert.True(t, quit.closeConnection)
	assert.Equal(t, respOk, quit.writeString)

	assertErrContains(t, handler.handle(command{name: "NOPE"}), "unknown command")
}

func TestHandle_SeekAndStep(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	assertStatus(t, handler.handle(command{name: "SEEK", args: []string{"0"}}), respOk)
	assertBulk(t, handler.handle(command{name: "STEP", args: []string{"FORWARD"}}), "b")
	assertBulk(t, handler.handle(command{name: "STEP", args: []string{"BACK"}}), "a")

	assertErrContains(t, handler.handle(command{name: "SEEK", args: []string{"9"}}), "out of bounds")
	assertErrContains(t, handler.handle(command{name: "SEEK", args: []string{"x"}}), "not an integer")
	assertErrContains(t, handler.handle(command{name: "STEP", args: []string{"SIDEWAYS"}}), "FORWARD or BACK")

	empty := newTestHandler(t)
	assertErrContains(t, empty.handle(command{name: "STEP", args: []string{"FORWARD"}}), "no current node")
}

func TestHandle_Insert(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	assertStatus(t, handler.handle(command{name: "INSERT", args: []string{"d", "AFTER", "2"}}), respOk)
	assertInt(t, handler.handle(command{name: "LEN"}), 4)
	assertBulk(t, handler.handle(command{name: "GET", args: []string{"3"}}), "d")

	// Bare INSERT splices before index 0, becoming the new head.
	assertStatus(t, handler.handle(command{name: "INSERT", args: []string{"z"}}), respOk)
	assertBulk(t, handler.handle(command{name: "GET", args: []string{"0"}}), "z")

	assertErrContains(t, handler.handle(command{name: "INSERT", args: []string{"x", "UNDER", "0"}}), "BEFORE or AFTER")
	assertErrContains(t, handler.handle(command{name: "INSERT", args: []string{"x", "AFTER", "q"}}), "not an integer")
	assertErrContains(t, handler.handle(command{name: "INSERT", args: []string{""}}), "non-empty value")
	assertErrContains(t, handler.handle(command{name: "INSERT"}), "wrong number of arguments")
}

func TestHandle_ModifyAndRemove(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	assertStatus(t, handler.handle(command{name: "MODIFY", args: []string{"1", "B"}}), respOk)
	assertBulk(t, handler.handle(command{name: "GET", args: []string{"1"}}), "B")

	assertBulk(t, handler.handle(command{name: "REMOVE", args: []string{"1"}}), "B")
	assertInt(t, handler.handle(command{name: "LEN"}), 2)

	// REMOVE with no index takes the head.
	assertBulk(t, handler.handle(command{name: "REMOVE"}), "a")

	assertErrContains(t, handler.handle(command{name: "REMOVE", args: []string{"5"}}), "out of bounds")
	assertErrContains(t, handler.handle(command{name: "MODIFY", args: []string{"0"}}), "wrong number of arguments")
}

func TestHandle_GetAndFind(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	assertBulk(t, handler.handle(command{name: "GET", args: []string{"1"}}), "b")
	assertErrContains(t, handler.handle(command{name: "GET", args: []string{"9"}}), "out of bounds")

	assertBulk(t, handler.handle(command{name: "FIND", args: []string{"b"}}), "b")
	// Misses become a RESP nil, not an error.
	missed := handler.handle(command{name: "FIND", args: []string{"z"}})
	require.Nil(t, missed.err)
	assert.True(t, missed.writeNil)
}

func TestHandle_Show(t *testing.T) {
	handler := newTestHandler(t, "a", "b", "c")

	all := handler.handle(command{name: "SHOW", args: []string{"ALL"}})
	require.Nil(t, all.err)
	assert.Equal(t, []string{"Node 0: a", "Node 1: b", "Node 2: c"}, all.writeLines)

	picked := handler.handle(command{name: "SHOW", args: []string{"0", "2"}})
	require.Nil(t, picked.err)
	assert.Equal(t, []string{"Node 0: a", "Node 2: c"}, picked.writeLines)

	assertErrContains(t, handler.handle(command{name: "SHOW", args: []string{"x"}}), "not an integer")
	assertErrContains(t, handler.handle(command{name: "SHOW"}), "wrong number of arguments")
}
