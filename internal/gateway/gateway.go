// Package gateway implements the framed command protocol between the host
// and the plugin. Messages are JSON delimited by a fixed terminator marker
// rather than a length prefix; the gateway reassembles chunked reads,
// dispatches one command at a time, and writes a framed response.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riseplugins/launchpad/internal/domain"
)

// Terminator marks the end of every inbound and outbound message.
const Terminator = "<<END>>"

const readChunkSize = 4096

// Handler processes one command's parameters and returns the outcome.
// Handlers never panic the gateway; they report failures in the result.
type Handler func(params map[string]any) domain.CommandResult

// Gateway serves commands over a byte channel, strictly one at a time:
// a command is fully read, dispatched, and answered before the next read.
type Gateway struct {
	in       io.Reader
	out      io.Writer
	handlers map[string]Handler
	logger   *zap.Logger

	// buf retains bytes read past a terminator, so a host that pipelines
	// two framed commands in one write loses nothing.
	buf []byte

	// closing is set by the shutdown command; Run exits after the
	// in-flight response is written.
	closing bool
}

// New creates a gateway over the given channel. The protocol-level
// initialize and shutdown commands are always served.
func New(in io.Reader, out io.Writer, logger *zap.Logger) *Gateway {
	g := &Gateway{
		in:       in,
		out:      out,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
	g.handlers[CmdInitialize] = g.handleInitialize
	g.handlers[CmdShutdown] = g.handleShutdown
	return g
}

// Register binds a handler to a command name.
func (g *Gateway) Register(name string, h Handler) {
	g.handlers[name] = h
}

// Run serves commands until the inbound channel closes (graceful shutdown)
// or ctx is cancelled. Malformed messages are answered with a generic
// failure and the loop keeps serving; only channel failure ends it.
func (g *Gateway) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			// Cancellation is a deliberate stop, same as EOF.
			g.logger.Info("shutdown requested, stopping")
			return nil
		default:
		}

		raw, err := g.readMessage()
		if errors.Is(err, io.EOF) {
			g.logger.Info("input channel closed, shutting down")
			return nil
		}
		if err != nil {
			g.logger.Error("failed to read command message", zap.Error(err))
			return err
		}

		result := g.dispatch(raw)

		if err := g.writeResult(result); err != nil {
			g.logger.Error("failed to write response", zap.Error(err))
			return err
		}

		if g.closing {
			g.logger.Info("shutdown command handled, stopping")
			return nil
		}
	}
}

// readMessage accumulates reads until the buffer contains the terminator,
// then returns the first message with the terminator stripped; bytes after
// it stay buffered for the next call. EOF before a terminator is seen means
// the host closed the channel; buffered bytes without a terminator never
// dispatch.
func (g *Gateway) readMessage() ([]byte, error) {
	chunk := make([]byte, readChunkSize)

	for {
		if idx := bytes.Index(g.buf, []byte(Terminator)); idx >= 0 {
			msg := g.buf[:idx]
			g.buf = g.buf[idx+len(Terminator):]
			return msg, nil
		}

		n, err := g.in.Read(chunk)
		if n > 0 {
			g.buf = append(g.buf, chunk[:n]...)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(g.buf) > 0 {
					g.logger.Warn("discarding unterminated message at shutdown",
						zap.Int("bytes", len(g.buf)))
				}
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read channel: %w", err)
		}
	}
}

// dispatch parses one raw message and invokes the matching handler.
// Parse failures and unknown commands come back as failure results; the
// gateway itself never aborts on bad input.
func (g *Gateway) dispatch(raw []byte) domain.CommandResult {
	call, err := parseCommand(raw)
	if err != nil {
		g.logger.Error("malformed command message", zap.Error(err))
		return domain.CommandResult{Success: false, Message: "Failed to parse command."}
	}

	id := uuid.NewString()
	g.logger.Info("command received",
		zap.String("id", id),
		zap.String("func", call.Func),
		zap.Any("params", call.Params))

	handler, ok := g.handlers[call.Func]
	if !ok {
		g.logger.Warn("unknown command", zap.String("id", id), zap.String("func", call.Func))
		return domain.CommandResult{
			Success: false,
			Message: fmt.Sprintf("Unknown command '%s'.", call.Func),
		}
	}

	result := handler(call.Params)

	g.logger.Info("command completed",
		zap.String("id", id),
		zap.String("func", call.Func),
		zap.Bool("success", result.Success),
		zap.String("message", result.Message))
	return result
}

func (g *Gateway) handleInitialize(_ map[string]any) domain.CommandResult {
	g.logger.Info("initializing plugin")
	return domain.CommandResult{Success: true, Message: "initialize success."}
}

// handleShutdown answers success and arms the run loop to stop once the
// response has been written out.
func (g *Gateway) handleShutdown(_ map[string]any) domain.CommandResult {
	g.logger.Info("shutting down plugin")
	g.closing = true
	return domain.CommandResult{Success: true, Message: "shutdown success."}
}

// writeResult serializes the result, appends the terminator, and writes the
// whole framed buffer in one call.
func (g *Gateway) writeResult(result domain.CommandResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	framed := append(payload, []byte(Terminator)...)
	if _, err := g.out.Write(framed); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// toolCall is one command extracted from an inbound envelope.
type toolCall struct {
	Func   string         `json:"func"`
	Params map[string]any `json:"params"`
}

// parseCommand accepts either the host envelope {"tool_calls": [...]} or a
// bare {"func": ..., "params": ...} object, dispatching the first call.
func parseCommand(raw []byte) (toolCall, error) {
	var env struct {
		ToolCalls []toolCall     `json:"tool_calls"`
		Func      string         `json:"func"`
		Params    map[string]any `json:"params"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return toolCall{}, fmt.Errorf("parse message: %w", err)
	}

	if len(env.ToolCalls) > 0 {
		return env.ToolCalls[0], nil
	}
	if env.Func != "" {
		return toolCall{Func: env.Func, Params: env.Params}, nil
	}
	return toolCall{}, errors.New("message contains no command")
}
