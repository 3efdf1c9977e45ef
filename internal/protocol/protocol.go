// Package protocol implements the line-framed, RESP-like wire format the
// server and client speak: requests arrive as arrays of bulk strings,
// replies as simple strings, bulk strings, or errors. One command is
// read, parsed, and answered per connection.
//
// Grounded on the request/response framing shape used by the teacher
// corpus's gRPC-free store protocols (length-prefixed, self-delimiting
// frames), adapted to RESP's specific sigils (*, $, +, -) since spec.md
// §6 names that wire format explicitly rather than leaving it open.
package protocol

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/iamNilotpal/kvs/pkg/errors"
)

// CommandName enumerates the requests a client may send.
type CommandName string

const (
	CmdPing    CommandName = "ping"
	CmdSet     CommandName = "set"
	CmdGet     CommandName = "get"
	CmdRemove  CommandName = "rm"
	CmdVersion CommandName = "version"
)

// Command is one fully-parsed client request.
type Command struct {
	Name CommandName
	Args []string
}

// ReadCommand reads one framed request from r: either the bulk-string
// array form (*<n>\r\n$<len>\r\n<word>\r\n...) or the simple-string ping
// shorthand (+PING\r\n). It returns a ProtocolError for anything that
// does not parse as one of those two shapes.
func ReadCommand(r *bufio.Reader) (Command, error) {
	line, err := readLine(r)
	if err != nil {
		return Command{}, err
	}

	if len(line) == 0 {
		return Command{}, errors.NewProtocolError(nil, "empty request line").WithRaw(line)
	}

	switch line[0] {
	case '+':
		word := strings.ToLower(strings.TrimSpace(line[1:]))
		if word != "ping" {
			return Command{}, errors.NewProtocolError(nil, "unrecognized simple-string command").WithRaw(line)
		}
		return Command{Name: CmdPing}, nil

	case '*':
		return readArrayCommand(r, line)

	default:
		return Command{}, errors.NewProtocolError(nil, "request did not start with '*' or '+'").WithRaw(line)
	}
}

func readArrayCommand(r *bufio.Reader, headerLine string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(headerLine[1:]))
	if err != nil || n <= 0 {
		return Command{}, errors.NewProtocolError(err, "invalid array length").WithRaw(headerLine)
	}

	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		word, err := readBulkString(r)
		if err != nil {
			return Command{}, err
		}
		words = append(words, word)
	}

	name := CommandName(strings.ToLower(words[0]))
	switch name {
	case CmdPing, CmdVersion:
		return Command{Name: name}, nil
	case CmdGet, CmdRemove:
		if len(words) != 2 {
			return Command{}, errors.NewProtocolError(nil, "command requires exactly one argument").
				WithRaw(strings.Join(words, " "))
		}
		return Command{Name: name, Args: words[1:]}, nil
	case CmdSet:
		if len(words) != 3 {
			return Command{}, errors.NewProtocolError(nil, "set requires exactly two arguments").
				WithRaw(strings.Join(words, " "))
		}
		return Command{Name: name, Args: words[1:]}, nil
	default:
		return Command{}, errors.NewProtocolError(nil, "unknown command").WithRaw(words[0])
	}
}

func readBulkString(r *bufio.Reader) (string, error) {
	lenLine, err := readLine(r)
	if err != nil {
		return "", err
	}
	return readBulkStringBody(r, lenLine)
}

// readBulkStringBody reads a bulk string's payload given its already-read
// length line ("$<len>").
func readBulkStringBody(r *bufio.Reader, lenLine string) (string, error) {
	if len(lenLine) == 0 || lenLine[0] != '$' {
		return "", errors.NewProtocolError(nil, "expected bulk string length prefix").WithRaw(lenLine)
	}

	n, err := strconv.Atoi(strings.TrimSpace(lenLine[1:]))
	if err != nil || n < 0 {
		return "", errors.NewProtocolError(err, "invalid bulk string length").WithRaw(lenLine)
	}

	buf := make([]byte, n+2) // payload plus trailing \r\n
	if _, err := readFull(r, buf); err != nil {
		return "", errors.NewProtocolError(err, "short read on bulk string payload")
	}

	return string(buf[:n]), nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", errors.NewProtocolError(err, "failed to read request line")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Reply renders one of the fixed wire replies spec.md §4.9 enumerates.
type Reply struct {
	raw string
}

func (r Reply) String() string { return r.raw }

// Bytes returns the wire bytes for this reply.
func (r Reply) Bytes() []byte { return []byte(r.raw) }

// Simple builds a "+<msg>\r\n" reply.
func Simple(msg string) Reply { return Reply{raw: "+" + msg + "\r\n"} }

// Bulk builds a "$<len>\r\n<value>\r\n" reply.
func Bulk(value string) Reply {
	return Reply{raw: fmt.Sprintf("$%d\r\n%s\r\n", len(value), value)}
}

// Err builds a "-<msg>\r\n" reply.
func Err(msg string) Reply { return Reply{raw: "-" + msg + "\r\n"} }

var (
	ReplyPong        = Simple("PONG")
	ReplyOK          = Simple("OK")
	ReplyKeyNotFound = Err("Key not found")
)

// EncodeCommand renders name and args as a request frame: the bulk-string
// array form every command but a bare ping needs.
func EncodeCommand(name CommandName, args ...string) []byte {
	words := append([]string{string(name)}, args...)

	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(words))
	for _, w := range words {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(w), w)
	}
	return []byte(b.String())
}

// ParsedReply is a reply as read back by a client: Kind is the leading
// sigil ('+', '$', or '-') and Value is the payload with framing
// stripped.
type ParsedReply struct {
	Kind  byte
	Value string
}

// ReadReply reads one reply frame written by Reply.Bytes: a simple
// string, a bulk string, or an error string.
func ReadReply(r *bufio.Reader) (ParsedReply, error) {
	line, err := readLine(r)
	if err != nil {
		return ParsedReply{}, err
	}
	if len(line) == 0 {
		return ParsedReply{}, errors.NewProtocolError(nil, "empty reply line").WithRaw(line)
	}

	switch line[0] {
	case '+', '-':
		return ParsedReply{Kind: line[0], Value: line[1:]}, nil

	case '$':
		word, err := readBulkStringBody(r, line)
		if err != nil {
			return ParsedReply{}, err
		}
		return ParsedReply{Kind: '$', Value: word}, nil

	default:
		return ParsedReply{}, errors.NewProtocolError(nil, "reply did not start with '+', '$', or '-'").WithRaw(line)
	}
}
