package xmlcodec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// CharsetReader converts input declared in the given IANA charset to UTF-8.
// It is the default xml.Decoder.CharsetReader of a Serializer.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q: unsupported", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func identityCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// sniff strips a UTF-8 byte order mark and transcodes UTF-16 input that
// starts with a byte order mark. Transcoded input ignores the charset named
// in the XML declaration, so the returned charset reader is the identity.
func sniff(r io.Reader, charset func(string, io.Reader) (io.Reader, error)) (io.Reader, func(string, io.Reader) (io.Reader, error)) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(3)

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, charset
	case bytes.HasPrefix(head, bomUTF16BE), bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.BOMOverride(unicode.UTF8.NewDecoder())), identityCharset
	default:
		return br, charset
	}
}
