package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-ncstream/internal/dtype"
	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
)

// Decoder reads NCStream messages from a byte stream.
type Decoder struct {
	r         io.Reader
	log       logrus.FieldLogger
	anomalies int
}

// NewDecoder creates a decoder. A nil logger falls back to the standard
// logrus logger.
func NewDecoder(r io.Reader, log logrus.FieldLogger) *Decoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Decoder{r: r, log: log}
}

// Anomalies returns the number of unrecognized magic sequences skipped
// so far.
func (d *Decoder) Anomalies() int {
	return d.anomalies
}

// ReadMessages decodes messages until end of stream. End of stream at a
// magic boundary is a clean terminator. An Error-magic message aborts
// the whole call with a *ServerError; unrecognized magic is logged and
// skipped. The protocol grows new message kinds over time, so tolerance
// of unknown magic mid-stream is deliberate.
func (d *Decoder) ReadMessages() ([]*Message, error) {
	var msgs []*Message
	for {
		var magic [4]byte
		if _, err := io.ReadFull(d.r, magic[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return msgs, nil
			}
			return nil, fmt.Errorf("%w: reading magic: %v", ErrTruncated, err)
		}

		switch magic {
		case MagicHeader:
			block, err := ReadBlock(d.r)
			if err != nil {
				return nil, err
			}
			hdr, err := ncproto.UnmarshalHeader(block)
			if err != nil {
				return nil, fmt.Errorf("decoding header message: %w", err)
			}
			msgs = append(msgs, &Message{Kind: KindHeader, Header: hdr})

		case MagicData:
			msg, err := d.readData()
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)

		case MagicError:
			block, err := ReadBlock(d.r)
			if err != nil {
				return nil, err
			}
			srvErr, err := ncproto.UnmarshalError(block)
			if err != nil {
				return nil, fmt.Errorf("decoding error message: %w", err)
			}
			return nil, &ServerError{Message: srvErr.Message}

		default:
			d.anomalies++
			d.log.Warnf("ncstream: unrecognized magic % x, skipping", magic)
		}
	}
}

// readData decodes one Data envelope and its payload.
func (d *Decoder) readData() (*Message, error) {
	block, err := ReadBlock(d.r)
	if err != nil {
		return nil, err
	}
	env, err := ncproto.UnmarshalData(block)
	if err != nil {
		return nil, fmt.Errorf("decoding data envelope: %w", err)
	}
	msg := &Message{Kind: KindData, Data: env}

	switch {
	case env.DataType.IsVariableLength() || env.VData:
		count, err := ReadVarInt(d.r)
		if err != nil {
			return nil, err
		}
		msg.Blocks = make([][]byte, 0, count)
		for i := uint64(0); i < count; i++ {
			elem, err := ReadBlock(d.r)
			if err != nil {
				return nil, err
			}
			msg.Blocks = append(msg.Blocks, elem)
		}

	case env.DataType.IsFixedWidth():
		raw, err := ReadBlock(d.r)
		if err != nil {
			return nil, err
		}
		msg.Values, err = dtype.DecodeArray(env, raw)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", env.VarName, err)
		}

	case env.DataType.IsComposite():
		msg.Records, err = d.readStructureRun()
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", env.VarName, err)
		}

	default:
		return nil, fmt.Errorf("%w: %d", dtype.ErrUnsupportedType, env.DataType)
	}

	return msg, nil
}

// readStructureRun reads VData-delimited record blocks until VEnd.
func (d *Decoder) readStructureRun() ([]*ncproto.StructureData, error) {
	var records []*ncproto.StructureData
	for {
		var magic [4]byte
		if _, err := io.ReadFull(d.r, magic[:]); err != nil {
			return nil, fmt.Errorf("%w: reading structure run magic: %v", ErrTruncated, err)
		}
		switch magic {
		case MagicVData:
			block, err := ReadBlock(d.r)
			if err != nil {
				return nil, err
			}
			rec, err := ncproto.UnmarshalStructureData(block)
			if err != nil {
				return nil, fmt.Errorf("decoding structure record: %w", err)
			}
			records = append(records, rec)
		case MagicVEnd:
			return records, nil
		default:
			return nil, fmt.Errorf("unexpected magic % x inside structure run", magic)
		}
	}
}
