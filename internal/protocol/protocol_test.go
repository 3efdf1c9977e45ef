package protocol

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) Command {
	t.Helper()
	cmd, err := ReadCommand(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	return cmd
}

func TestReadCommandParsesSimplePing(t *testing.T) {
	cmd := parse(t, "+PING\r\n")
	require.Equal(t, CmdPing, cmd.Name)
}

func TestReadCommandParsesArrayPing(t *testing.T) {
	cmd := parse(t, "*1\r\n$4\r\nping\r\n")
	require.Equal(t, CmdPing, cmd.Name)
}

func TestReadCommandParsesSet(t *testing.T) {
	cmd := parse(t, "*3\r\n$3\r\nset\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	require.Equal(t, CmdSet, cmd.Name)
	require.Equal(t, []string{"foo", "bar"}, cmd.Args)
}

func TestReadCommandParsesGet(t *testing.T) {
	cmd := parse(t, "*2\r\n$3\r\nget\r\n$3\r\nfoo\r\n")
	require.Equal(t, CmdGet, cmd.Name)
	require.Equal(t, []string{"foo"}, cmd.Args)
}

func TestReadCommandParsesRemove(t *testing.T) {
	cmd := parse(t, "*2\r\n$2\r\nrm\r\n$3\r\nfoo\r\n")
	require.Equal(t, CmdRemove, cmd.Name)
	require.Equal(t, []string{"foo"}, cmd.Args)
}

func TestReadCommandRejectsWrongArgCount(t *testing.T) {
	_, err := ReadCommand(bufio.NewReader(strings.NewReader("*2\r\n$3\r\nset\r\n$3\r\nfoo\r\n")))
	require.Error(t, err)
}

func TestReadCommandRejectsUnknownCommand(t *testing.T) {
	_, err := ReadCommand(bufio.NewReader(strings.NewReader("*1\r\n$7\r\nunknown\r\n")))
	require.Error(t, err)
}

func TestReadCommandRejectsGarbageFraming(t *testing.T) {
	_, err := ReadCommand(bufio.NewReader(strings.NewReader("garbage\r\n")))
	require.Error(t, err)
}

func TestBulkReplyFormat(t *testing.T) {
	require.Equal(t, "$5\r\nhello\r\n", Bulk("hello").String())
}

func TestSimpleAndErrReplyFormat(t *testing.T) {
	require.Equal(t, "+OK\r\n", ReplyOK.String())
	require.Equal(t, "-Key not found\r\n", ReplyKeyNotFound.String())
}

func TestEncodeCommandRoundTripsThroughReadCommand(t *testing.T) {
	raw := EncodeCommand(CmdSet, "foo", "bar")
	cmd, err := ReadCommand(bufio.NewReader(strings.NewReader(string(raw))))
	require.NoError(t, err)
	require.Equal(t, CmdSet, cmd.Name)
	require.Equal(t, []string{"foo", "bar"}, cmd.Args)
}

func TestEncodeCommandNoArgs(t *testing.T) {
	raw := EncodeCommand(CmdPing)
	require.Equal(t, "*1\r\n$4\r\nping\r\n", string(raw))
}

func TestReadReplyParsesSimpleBulkAndErr(t *testing.T) {
	reply, err := ReadReply(bufio.NewReader(strings.NewReader("+PONG\r\n")))
	require.NoError(t, err)
	require.Equal(t, ParsedReply{Kind: '+', Value: "PONG"}, reply)

	reply, err = ReadReply(bufio.NewReader(strings.NewReader("$3\r\nfoo\r\n")))
	require.NoError(t, err)
	require.Equal(t, ParsedReply{Kind: '$', Value: "foo"}, reply)

	reply, err = ReadReply(bufio.NewReader(strings.NewReader("-Key not found\r\n")))
	require.NoError(t, err)
	require.Equal(t, ParsedReply{Kind: '-', Value: "Key not found"}, reply)
}

func TestReadReplyRejectsGarbageFraming(t *testing.T) {
	_, err := ReadReply(bufio.NewReader(strings.NewReader("garbage\r\n")))
	require.Error(t, err)
}
