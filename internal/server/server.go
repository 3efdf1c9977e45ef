// Package server accepts TCP connections and dispatches one command per
// connection through the configured worker pool: read a frame, parse it,
// call the engine, write a reply, close the connection.
//
// Grounded on spec.md §4.9's single-shot-per-connection dispatcher
// semantics, with the worker-pool abstraction from internal/workerpool
// standing in for whichever of its three variants the operator chose.
package server

import (
	"bufio"
	"context"
	"net"

	"github.com/iamNilotpal/kvs/internal/buildinfo"
	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/internal/protocol"
	"github.com/iamNilotpal/kvs/internal/workerpool"
	"github.com/iamNilotpal/kvs/pkg/errors"
	"go.uber.org/zap"
)

// Server owns a TCP listener, an Engine, and a worker pool to dispatch
// accepted connections through.
type Server struct {
	addr string
	eng  engine.Engine
	pool workerpool.Pool
	log  *zap.SugaredLogger

	ln net.Listener
}

// New constructs a Server. It does not bind the listener; call Serve for
// that.
func New(addr string, eng engine.Engine, pool workerpool.Pool, log *zap.SugaredLogger) *Server {
	return &Server{addr: addr, eng: eng, pool: pool, log: log}
}

// Serve binds addr and accepts connections until ctx is cancelled or
// Accept fails. Each accepted connection is dispatched through the
// server's worker pool and handled independently.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to bind server address").
			WithDetail("addr", s.addr)
	}
	s.ln = ln

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Infow("server listening", "addr", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.NewStorageError(err, errors.ErrorCodeIO, "accept failed")
			}
		}

		s.pool.Spawn(func() {
			s.handle(conn)
		})
	}
}

// Close stops accepting connections and drains the worker pool.
func (s *Server) Close() error {
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	s.pool.Shutdown()
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	cmd, err := protocol.ReadCommand(bufio.NewReader(conn))
	if err != nil {
		s.log.Warnw("closing connection after protocol error", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	reply := s.dispatch(cmd)
	if _, err := conn.Write(reply.Bytes()); err != nil {
		s.log.Warnw("failed to write reply", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (s *Server) dispatch(cmd protocol.Command) protocol.Reply {
	switch cmd.Name {
	case protocol.CmdPing:
		return protocol.ReplyPong

	case protocol.CmdVersion:
		return protocol.Simple(buildinfo.Version)

	case protocol.CmdSet:
		if err := s.eng.Set(cmd.Args[0], cmd.Args[1]); err != nil {
			s.log.Errorw("set failed", "key", cmd.Args[0], "error", err)
			return protocol.Err(err.Error())
		}
		return protocol.ReplyOK

	case protocol.CmdGet:
		val, found, err := s.eng.Get(cmd.Args[0])
		if err != nil {
			s.log.Errorw("get failed", "key", cmd.Args[0], "error", err)
			return protocol.Err(err.Error())
		}
		if !found {
			return protocol.ReplyKeyNotFound
		}
		return protocol.Bulk(val)

	case protocol.CmdRemove:
		if err := s.eng.Remove(cmd.Args[0]); err != nil {
			if errors.GetErrorCode(err) == errors.ErrorCodeIndexKeyNotFound {
				return protocol.ReplyKeyNotFound
			}
			s.log.Errorw("remove failed", "key", cmd.Args[0], "error", err)
			return protocol.Err(err.Error())
		}
		return protocol.ReplyOK

	default:
		return protocol.Err("unknown command")
	}
}
