// Package objfile encodes a compiled Program as the o0 binary object
// format: a fixed magic and version header followed by the constant
// pool, the start-code instruction vector, and the function table, all
// big-endian.
package objfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"

	"cc0/internal/bytecode"
	"cc0/internal/ir"
	"cc0/internal/pool"
)

var magic = [4]byte{0x43, 0x30, 0x3A, 0x29}

const version uint32 = 0x00000001

// Encode serializes prog into the binary object format.
func Encode(prog *ir.Program) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.BigEndian, version)

	if err := encodeConstants(&buf, prog.Constants); err != nil {
		return nil, err
	}
	encodeCode(&buf, prog.Start)
	if err := encodeFunctions(&buf, prog.Functions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeConstants(buf *bytes.Buffer, entries []pool.Entry) error {
	binary.Write(buf, binary.BigEndian, uint16(len(entries)))
	for _, e := range entries {
		switch e.Kind {
		case pool.KindInt:
			buf.WriteByte(1)
			v, err := strconv.ParseInt(e.Text, 0, 64)
			if err != nil {
				return fmt.Errorf("objfile: bad int constant %q: %w", e.Text, err)
			}
			binary.Write(buf, binary.BigEndian, uint32(v))
		case pool.KindDouble:
			buf.WriteByte(2)
			v, err := strconv.ParseFloat(e.Text, 64)
			if err != nil {
				return fmt.Errorf("objfile: bad double constant %q: %w", e.Text, err)
			}
			binary.Write(buf, binary.BigEndian, v)
		case pool.KindString:
			buf.WriteByte(0)
			data := []byte(e.Text)
			binary.Write(buf, binary.BigEndian, uint16(len(data)))
			buf.Write(data)
		default:
			return fmt.Errorf("objfile: unknown constant kind %q", e.Kind)
		}
	}
	return nil
}

// writeOperand marshals one operand value at its opcode-specific wire
// width, per the instruction encoding table in the object format spec.
func writeOperand(buf *bytes.Buffer, v int64, width int) {
	switch width {
	case 1:
		binary.Write(buf, binary.BigEndian, int8(v))
	case 2:
		binary.Write(buf, binary.BigEndian, int16(v))
	case 4:
		binary.Write(buf, binary.BigEndian, int32(v))
	}
}

func readOperand(r *bytes.Reader, width int) (int64, error) {
	switch width {
	case 1:
		var v int8
		err := binary.Read(r, binary.BigEndian, &v)
		return int64(v), err
	case 2:
		var v int16
		err := binary.Read(r, binary.BigEndian, &v)
		return int64(v), err
	case 4:
		var v int32
		err := binary.Read(r, binary.BigEndian, &v)
		return int64(v), err
	default:
		return 0, fmt.Errorf("objfile: unsupported operand width %d", width)
	}
}

func encodeCode(buf *bytes.Buffer, code []bytecode.Instruction) {
	binary.Write(buf, binary.BigEndian, uint16(len(code)))
	for _, ins := range code {
		buf.WriteByte(byte(ins.Op))
		widths := ins.Op.OperandWidths()
		if len(widths) > 0 {
			writeOperand(buf, ins.X, widths[0])
		}
		if len(widths) > 1 {
			writeOperand(buf, ins.Y, widths[1])
		}
	}
}

func encodeFunctions(buf *bytes.Buffer, fns []ir.Function) error {
	binary.Write(buf, binary.BigEndian, uint16(len(fns)))
	for _, fn := range fns {
		binary.Write(buf, binary.BigEndian, uint16(fn.NameConstIdx))
		binary.Write(buf, binary.BigEndian, uint16(fn.ParamSlots))
		binary.Write(buf, binary.BigEndian, uint16(fn.Level))
		encodeCode(buf, fn.Code)
	}
	return nil
}

// Decode parses a binary object file back into its section contents.
// Its caller in this module is the objfile test suite; the CLI's
// build-cache hit path writes the stored bytes without decoding them.
func Decode(data []byte) (*ir.Program, error) {
	r := bytes.NewReader(data)
	var gotMagic [4]byte
	if _, err := r.Read(gotMagic[:]); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("objfile: bad magic %x", gotMagic)
	}
	var gotVersion uint32
	if err := binary.Read(r, binary.BigEndian, &gotVersion); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	if gotVersion != version {
		return nil, fmt.Errorf("objfile: unsupported version %d", gotVersion)
	}

	constants, err := decodeConstants(r)
	if err != nil {
		return nil, err
	}
	start, err := decodeCode(r)
	if err != nil {
		return nil, err
	}
	functions, err := decodeFunctions(r)
	if err != nil {
		return nil, err
	}
	return &ir.Program{Constants: constants, Start: start, Functions: functions}, nil
}

func decodeConstants(r *bytes.Reader) ([]pool.Entry, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	entries := make([]pool.Entry, 0, n)
	for i := 0; i < int(n); i++ {
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var kind pool.Kind
		var text string
		switch kindByte {
		case 1:
			kind = pool.KindInt
			var v uint32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return nil, err
			}
			text = strconv.FormatUint(uint64(v), 10)
		case 2:
			kind = pool.KindDouble
			var v float64
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return nil, err
			}
			text = strconv.FormatFloat(v, 'g', -1, 64)
		case 0:
			kind = pool.KindString
			var slen uint16
			if err := binary.Read(r, binary.BigEndian, &slen); err != nil {
				return nil, err
			}
			data := make([]byte, slen)
			if _, err := r.Read(data); err != nil {
				return nil, err
			}
			text = string(data)
		default:
			return nil, fmt.Errorf("objfile: unknown constant kind byte %x", kindByte)
		}
		entries = append(entries, pool.Entry{Kind: kind, Text: text})
	}
	return entries, nil
}

func decodeCode(r *bytes.Reader) ([]bytecode.Instruction, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	code := make([]bytecode.Instruction, 0, n)
	for i := 0; i < int(n); i++ {
		opByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		op := bytecode.OpCode(opByte)
		ins := bytecode.New(op)
		widths := op.OperandWidths()
		if len(widths) > 0 {
			v, err := readOperand(r, widths[0])
			if err != nil {
				return nil, err
			}
			ins.X = v
		}
		if len(widths) > 1 {
			v, err := readOperand(r, widths[1])
			if err != nil {
				return nil, err
			}
			ins.Y = v
		}
		code = append(code, ins)
	}
	return code, nil
}

func decodeFunctions(r *bytes.Reader) ([]ir.Function, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	fns := make([]ir.Function, 0, n)
	for i := 0; i < int(n); i++ {
		var nameConstIdx, paramSlots, level uint16
		if err := binary.Read(r, binary.BigEndian, &nameConstIdx); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &paramSlots); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &level); err != nil {
			return nil, err
		}
		code, err := decodeCode(r)
		if err != nil {
			return nil, err
		}
		fns = append(fns, ir.Function{
			NameConstIdx: int(nameConstIdx),
			ParamSlots:   int(paramSlots),
			Level:        int(level),
			Code:         code,
		})
	}
	return fns, nil
}
