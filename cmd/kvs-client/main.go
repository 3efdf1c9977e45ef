// Command kvs-client speaks the wire protocol directly against a running
// kvs-server: dial, send one framed request, print the reply, exit. Each
// subcommand is a single round trip, matching the server's
// single-command-per-connection dispatch.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/kvs/internal/buildinfo"
	"github.com/iamNilotpal/kvs/internal/protocol"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		showVer bool
	)

	root := &cobra.Command{
		Use:   "kvs-client",
		Short: "Talk to a kvs-server over its wire protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVer {
				fmt.Println(buildinfo.Version)
				return nil
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:6969", "server address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "dial and round-trip timeout")
	root.Flags().BoolVarP(&showVer, "version", "V", false, "print build version and exit")

	root.AddCommand(
		newPingCmd(&addr, &timeout),
		newGetCmd(&addr, &timeout),
		newSetCmd(&addr, &timeout),
		newRemoveCmd(&addr, &timeout),
	)
	return root
}

func newPingCmd(addr *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the server responds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(*addr, *timeout, protocol.EncodeCommand(protocol.CmdPing))
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newGetCmd(addr *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Fetch the value stored for key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(*addr, *timeout, protocol.EncodeCommand(protocol.CmdGet, args[0]))
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newSetCmd(addr *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(*addr, *timeout, protocol.EncodeCommand(protocol.CmdSet, args[0], args[1]))
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newRemoveCmd(addr *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete key's entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(*addr, *timeout, protocol.EncodeCommand(protocol.CmdRemove, args[0]))
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

// roundTrip dials addr, writes req, and reads back the single reply the
// server writes before closing the connection.
func roundTrip(addr string, timeout time.Duration, req []byte) (protocol.ParsedReply, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return protocol.ParsedReply{}, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write(req); err != nil {
		return protocol.ParsedReply{}, fmt.Errorf("writing request: %w", err)
	}

	reply, err := protocol.ReadReply(bufio.NewReader(conn))
	if err != nil {
		return protocol.ParsedReply{}, fmt.Errorf("reading reply: %w", err)
	}
	return reply, nil
}

// printReply writes a reply's value to stdout and turns any error reply
// ('-', which covers both "Key not found" and engine failures) into a
// non-zero exit via the returned error.
func printReply(reply protocol.ParsedReply) error {
	fmt.Println(reply.Value)
	if reply.Kind == '-' {
		return fmt.Errorf("server error: %s", reply.Value)
	}
	return nil
}
