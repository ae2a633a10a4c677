// Package sdrudp defines the control datagram protocol, configuration and
// status types shared by the streaming server and its clients.
package sdrudp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/chzchzchz/rtludp/radio"
)

var ErrEmptyCommand = errors.New("empty command")
var ErrShortCommand = errors.New("command too short")
var ErrUnknownOpcode = errors.New("unknown command")

type Opcode uint8

const (
	OpSetFrequency  Opcode = 0x01
	OpSetSampleRate Opcode = 0x02
	OpSetGain       Opcode = 0x03
)

// CommandLen is the size of a command carrying a parameter.
const CommandLen = 5

func (op Opcode) String() string {
	switch op {
	case OpSetFrequency:
		return "set-frequency"
	case OpSetSampleRate:
		return "set-sample-rate"
	case OpSetGain:
		return "set-gain"
	default:
		return fmt.Sprintf("opcode(0x%02x)", uint8(op))
	}
}

func (op Opcode) Known() bool { return op >= OpSetFrequency && op <= OpSetGain }

// Command is one control datagram: an opcode and a big-endian 32-bit parameter.
type Command struct {
	Op    Opcode
	Param uint32
}

func NewFrequencyCommand(hz uint32) Command  { return Command{OpSetFrequency, hz} }
func NewSampleRateCommand(hz uint32) Command { return Command{OpSetSampleRate, hz} }

// NewGainCommand encodes tenths of dB; negative gains travel as two's complement.
func NewGainCommand(tenthsDB int32) Command { return Command{OpSetGain, uint32(tenthsDB)} }

// Gain interprets the parameter as signed tenths of dB.
func (c Command) Gain() int32 { return int32(c.Param) }

func (c Command) String() string {
	if c.Op == OpSetGain {
		return fmt.Sprintf("%v %d", c.Op, c.Gain())
	}
	return fmt.Sprintf("%v %d", c.Op, c.Param)
}

func (c Command) MarshalBinary() ([]byte, error) {
	b := make([]byte, CommandLen)
	b[0] = byte(c.Op)
	binary.BigEndian.PutUint32(b[1:], c.Param)
	return b, nil
}

// ParseCommand decodes a control datagram. Bytes past the parameter are
// ignored. For an unknown opcode the returned Command still carries the opcode.
func ParseCommand(b []byte) (Command, error) {
	if len(b) == 0 {
		return Command{}, ErrEmptyCommand
	}
	c := Command{Op: Opcode(b[0])}
	if !c.Op.Known() {
		return c, ErrUnknownOpcode
	}
	if len(b) < CommandLen {
		return c, fmt.Errorf("%w: %v needs %d bytes, got %d", ErrShortCommand, c.Op, CommandLen, len(b))
	}
	c.Param = binary.BigEndian.Uint32(b[1:CommandLen])
	return c, nil
}

// Stats counts data and control path events.
type Stats struct {
	BlocksSent      uint64 `json:"blocks_sent"`
	BytesSent       uint64 `json:"bytes_sent"`
	ReadErrors      uint64 `json:"read_errors"`
	SendErrors      uint64 `json:"send_errors"`
	Commands        uint64 `json:"commands"`
	UnknownCommands uint64 `json:"unknown_commands"`
	DroppedCommands uint64 `json:"dropped_commands"`
	SetErrors       uint64 `json:"set_errors"`
	ReceiveErrors   uint64 `json:"receive_errors"`
}

// Status is a snapshot of a running server.
type Status struct {
	ID          string         `json:"id"`
	Driver      string         `json:"driver"`
	Destination string         `json:"destination"`
	DataPort    int            `json:"data_port"`
	ControlPort int            `json:"control_port"`
	Settings    radio.Settings `json:"settings"`
	Stats       Stats          `json:"stats"`
	Started     time.Time      `json:"started"`
}
