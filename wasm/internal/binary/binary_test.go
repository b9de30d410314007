package binary

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data, 0)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderBaseOffset(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, 100)
	if r.Position() != 100 {
		t.Errorf("initial position: got %d, want 100", r.Position())
	}
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if r.Position() != 101 {
		t.Errorf("position: got %d, want 101", r.Position())
	}
	if r.Len() != 1 {
		t.Errorf("len: got %d, want 1", r.Len())
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data, 0)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}

	if r.Position() != 3 {
		t.Errorf("position: got %d, want 3", r.Position())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read must not advance: position %d", r.Position())
	}
}

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadU32()
		if err != nil {
			t.Errorf("ReadU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadU32Overflow(t *testing.T) {
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	r := NewReader(data, 0)
	_, err := r.ReadU32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReaderReadU32Truncated(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80}, 0)
	if _, err := r.ReadU32(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadName(t *testing.T) {
	w := NewWriter()
	w.WriteName("hello")

	r := NewReader(w.Bytes(), 0)
	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadName: got %q, want %q", got, "hello")
	}
}

func TestReaderReadNameInvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x02, 0xff, 0xfe}, 0)
	if _, err := r.ReadName(); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestReaderReadNameTruncated(t *testing.T) {
	r := NewReader([]byte{0x05, 'a', 'b'}, 0)
	if _, err := r.ReadName(); err == nil {
		t.Error("expected error for truncated name")
	}
}

func TestReaderReadU32LE(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04}, 0)
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE: %v", err)
	}
	if got != 0x04030201 {
		t.Errorf("ReadU32LE: got 0x%08x, want 0x04030201", got)
	}
}

func TestReaderReadRemaining(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03}, 0)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		t.Fatalf("ReadRemaining: %v", err)
	}
	if !bytes.Equal(rest, []byte{0x02, 0x03}) {
		t.Errorf("ReadRemaining: got %v", rest)
	}

	empty, err := r.ReadRemaining()
	if err != nil {
		t.Fatalf("ReadRemaining at end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty remainder, got %v", empty)
	}
}

func TestReaderWrapError(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, 8)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}

	cause := errors.New("boom")
	err := r.WrapError("custom section", cause)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 9 {
		t.Errorf("position: got %d, want 9", pe.Position)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}
	if !strings.Contains(err.Error(), "custom section") {
		t.Errorf("message missing section: %q", err.Error())
	}

	bare := (&ParseError{Position: 3, Err: cause}).Error()
	if strings.Contains(bare, "  ") || !strings.Contains(bare, "position 3") {
		t.Errorf("unexpected message: %q", bare)
	}
}

func TestWriterWriteU32(t *testing.T) {
	tests := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteU32(tt.value)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteU32(%d): got %v, want %v", tt.value, w.Bytes(), tt.want)
		}
	}
}

func TestWriterSection(t *testing.T) {
	w := NewWriter()
	w.Section(0, []byte{0xaa, 0xbb})
	want := []byte{0x00, 0x02, 0xaa, 0xbb}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Section: got %v, want %v", w.Bytes(), want)
	}
	if w.Len() != 4 {
		t.Errorf("Len: got %d, want 4", w.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x6D736100)
	w.WriteU32(300)
	w.WriteName("résumé")
	w.Byte(0x42)

	r := NewReader(w.Bytes(), 0)
	magic, err := r.ReadU32LE()
	if err != nil || magic != 0x6D736100 {
		t.Fatalf("magic: %x %v", magic, err)
	}
	n, err := r.ReadU32()
	if err != nil || n != 300 {
		t.Fatalf("u32: %d %v", n, err)
	}
	name, err := r.ReadName()
	if err != nil || name != "résumé" {
		t.Fatalf("name: %q %v", name, err)
	}
	b, err := r.ReadByte()
	if err != nil || b != 0x42 {
		t.Fatalf("byte: %x %v", b, err)
	}
	if r.Len() != 0 {
		t.Errorf("trailing bytes: %d", r.Len())
	}
}
