package wire

import "encoding/binary"

// Proto selects the application protocol a tunnel is registered for.
type Proto uint8

const (
	ProtoHTTP Proto = 0x01
	ProtoTCP  Proto = 0x02
)

func (p Proto) valid() bool {
	return p == ProtoHTTP || p == ProtoTCP
}

// MaxNameLength bounds Request.Name, per the registration handshake.
const MaxNameLength = 4096

// requestFixedSize is the byte length of Request before the variable-length
// name: 1 byte proto + 4 byte nameLength.
const requestFixedSize = 5

// Request is the registration payload sent on the control stream.
// NameLength is carried on the wire separately from Name, as in the
// original layout, so a caller can construct (and SerializeRequest can
// reject) a Request whose declared length disagrees with the name itself.
type Request struct {
	Proto      Proto
	NameLength uint32
	Name       string
}

// NewRequest builds a Request with NameLength derived from Name.
func NewRequest(proto Proto, name string) Request {
	return Request{Proto: proto, NameLength: uint32(len(name)), Name: name}
}

func (r Request) validate() error {
	if !r.Proto.valid() {
		return ErrUnknownProto
	}
	if r.NameLength != uint32(len(r.Name)) {
		return ErrLengthMismatch
	}
	if len(r.Name) == 0 {
		return ErrEmptyName
	}
	if len(r.Name) > MaxNameLength {
		return ErrStringTooLong
	}
	return nil
}

// SerializeRequest encodes r, validating proto, name length and the
// NameLength/Name agreement first.
func SerializeRequest(r Request) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, requestFixedSize+len(r.Name))
	buf[0] = byte(r.Proto)
	binary.BigEndian.PutUint32(buf[1:5], r.NameLength)
	copy(buf[5:], r.Name)
	return buf, nil
}

// DeserializeRequest decodes buf, which must contain at least
// requestFixedSize + nameLength bytes.
func DeserializeRequest(buf []byte) (Request, error) {
	if len(buf) < requestFixedSize {
		return Request{}, ErrTruncated
	}
	proto := Proto(buf[0])
	nameLen := binary.BigEndian.Uint32(buf[1:5])
	if uint64(len(buf)) < uint64(requestFixedSize)+uint64(nameLen) {
		return Request{}, ErrTruncated
	}
	name := string(buf[requestFixedSize : requestFixedSize+int(nameLen)])
	r := Request{Proto: proto, NameLength: nameLen, Name: name}
	if err := r.validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}
