// Package trace emits and decodes the driver's binary trace stream.
//
// Records travel in framed messages modeled on firmware serial links:
// a length byte, a wrapping sequence byte, the record payload, a CRC16
// over everything before the trailer, and a closing sync byte. The
// stream is one-way; a host-side reader resynchronizes on the sync
// byte and detects dropped frames through sequence gaps.
package trace

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"sync"
)

// Frame layout shared with host-side readers.
const (
	frameHeaderSize  = 2
	frameTrailerSize = 3
	frameLengthMin   = frameHeaderSize + frameTrailerSize
	frameLengthMax   = 64
	frameSync        = 0x7e
)

// Kind tags a record payload with its type.
type Kind uint8

const (
	KindDictionary Kind = 0x01
	KindInit       Kind = 0x02
	KindTick       Kind = 0x03
)

func (k Kind) String() string {
	switch k {
	case KindDictionary:
		return "dictionary"
	case KindInit:
		return "init"
	case KindTick:
		return "tick"
	}
	return fmt.Sprintf("kind(%#02x)", uint8(k))
}

var (
	ErrFrameTooLarge  = errors.New("trace: record exceeds frame capacity")
	ErrTruncatedFrame = errors.New("trace: truncated frame")
	ErrCorruptFrame   = errors.New("trace: corrupt frame")
	ErrIdentCollision = errors.New("trace: object names hash to the same id")
)

// Ident names an object in the trace stream. The numeric form travels
// on the wire; the textual form is published once through a dictionary
// record so host tooling can translate ids back to names.
type Ident struct {
	id   uint32
	name string
}

// IdentOf derives a stable stream identity from name.
func IdentOf(name string) Ident {
	h := fnv.New32a()
	h.Write([]byte(name))
	return Ident{id: h.Sum32(), name: name}
}

func (id Ident) ID() uint32     { return id.id }
func (id Ident) Name() string   { return id.name }
func (id Ident) String() string { return fmt.Sprintf("%s#%08x", id.name, id.id) }

// Recorder serializes records onto a single writer. It is safe for
// concurrent use; the tick worker shares it with whoever registers
// dictionary entries.
type Recorder struct {
	mu    sync.Mutex
	w     io.Writer
	seq   uint8
	names map[uint32]string
}

// NewRecorder wraps w, typically a serial port or a capture file.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, names: make(map[uint32]string)}
}

// RegisterObject publishes the dictionary entry for id. Registering
// the same identity again is a no-op. Two distinct names mapping to
// one id is reported as ErrIdentCollision.
func (r *Recorder) RegisterObject(id Ident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.names[id.id]; ok {
		if prev == id.name {
			return nil
		}
		return fmt.Errorf("%w: %q and %q both map to %#08x", ErrIdentCollision, prev, id.name, id.id)
	}

	payload := []byte{byte(KindDictionary)}
	payload = appendVLQUint(payload, id.id)
	payload = appendVLQString(payload, id.name)
	if err := r.emit(payload); err != nil {
		return err
	}
	r.names[id.id] = id.name
	return nil
}

// RecordInit notes the worker placement and rate chosen at
// initialization.
func (r *Recorder) RecordInit(core int, rate uint8) error {
	payload := []byte{byte(KindInit)}
	payload = appendVLQInt(payload, int32(core))
	payload = appendVLQUint(payload, uint32(rate))

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emit(payload)
}

// RecordTick notes one worker wake: how many hook firings it absorbed
// and how many clock advances it performed. A nil sender is recorded
// as id zero.
func (r *Recorder) RecordTick(sender *Ident, rate uint8, credits, advances uint32) error {
	var senderID uint32
	if sender != nil {
		senderID = sender.id
	}
	payload := []byte{byte(KindTick)}
	payload = appendVLQUint(payload, senderID)
	payload = appendVLQUint(payload, uint32(rate))
	payload = appendVLQUint(payload, credits)
	payload = appendVLQUint(payload, advances)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emit(payload)
}

// emit frames payload and writes it out. Callers hold r.mu.
func (r *Recorder) emit(payload []byte) error {
	total := frameHeaderSize + len(payload) + frameTrailerSize
	if total > frameLengthMax {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, total)
	}

	frame := make([]byte, 0, total)
	frame = append(frame, byte(total), r.seq)
	frame = append(frame, payload...)
	crc := CRC16(frame)
	frame = append(frame, byte(crc>>8), byte(crc), frameSync)

	if _, err := r.w.Write(frame); err != nil {
		return fmt.Errorf("trace: write frame: %w", err)
	}
	r.seq++
	return nil
}

// Frame is one validated message lifted off the stream.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// ParseFrame validates the frame at the head of data and returns it
// along with the unconsumed remainder. ErrTruncatedFrame means more
// bytes are needed; ErrCorruptFrame means the reader should scan
// forward to the next sync byte.
func ParseFrame(data []byte) (Frame, []byte, error) {
	if len(data) < frameLengthMin {
		return Frame{}, data, ErrTruncatedFrame
	}
	total := int(data[0])
	if total < frameLengthMin || total > frameLengthMax {
		return Frame{}, data, fmt.Errorf("%w: length byte %d", ErrCorruptFrame, total)
	}
	if len(data) < total {
		return Frame{}, data, ErrTruncatedFrame
	}
	if data[total-1] != frameSync {
		return Frame{}, data, fmt.Errorf("%w: missing sync byte", ErrCorruptFrame)
	}
	want := uint16(data[total-3])<<8 | uint16(data[total-2])
	if got := CRC16(data[:total-frameTrailerSize]); got != want {
		return Frame{}, data, fmt.Errorf("%w: checksum %#04x, frame carries %#04x", ErrCorruptFrame, got, want)
	}
	return Frame{Seq: data[1], Payload: data[frameHeaderSize : total-frameTrailerSize]}, data[total:], nil
}

// Record is the decoded form of a frame payload. Fields beyond Kind
// are populated according to the kind.
type Record struct {
	Seq  uint8
	Kind Kind

	ID   uint32 // dictionary
	Name string // dictionary

	Core int32 // init

	Sender   uint32 // tick
	Rate     uint32 // init, tick
	Credits  uint32 // tick
	Advances uint32 // tick
}

// DecodeRecord interprets a parsed frame.
func DecodeRecord(f Frame) (Record, error) {
	if len(f.Payload) == 0 {
		return Record{}, fmt.Errorf("%w: empty payload", ErrCorruptFrame)
	}
	rec := Record{Seq: f.Seq, Kind: Kind(f.Payload[0])}
	rest := f.Payload[1:]
	var err error

	switch rec.Kind {
	case KindDictionary:
		if rec.ID, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
		if rec.Name, rest, err = vlqString(rest); err != nil {
			return Record{}, err
		}
	case KindInit:
		if rec.Core, rest, err = vlqInt(rest); err != nil {
			return Record{}, err
		}
		if rec.Rate, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
	case KindTick:
		if rec.Sender, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
		if rec.Rate, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
		if rec.Credits, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
		if rec.Advances, rest, err = vlqUint(rest); err != nil {
			return Record{}, err
		}
	default:
		return Record{}, fmt.Errorf("%w: unknown record kind %#02x", ErrCorruptFrame, uint8(rec.Kind))
	}

	if len(rest) != 0 {
		return Record{}, fmt.Errorf("%w: %d trailing payload bytes", ErrCorruptFrame, len(rest))
	}
	return rec, nil
}
