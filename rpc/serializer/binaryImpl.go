package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/sgc/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasToken   uint16 = 1 << 0
	hasID      uint16 = 1 << 1
	hasGroup   uint16 = 1 << 2
	hasAdmin   uint16 = 1 << 3
	hasName    uint16 = 1 << 4
	hasSecret  uint16 = 1 << 5
	hasOk      uint16 = 1 << 6
	hasCount   uint16 = 1 << 7
	hasText    uint16 = 1 << 8
	hasErr     uint16 = 1 << 9
	hasErrCode uint16 = 1 << 10
)

// header layout: 1 byte MsgType + 2 bytes flags
const headerSize = 3

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, headerSize, b.sizeBytes(msg))
	result[0] = byte(msg.MsgType)

	var flags uint16

	appendBytes := func(flag uint16, data []byte) {
		flags |= flag
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
		result = append(result, lenBuf[:]...)
		result = append(result, data...)
	}
	appendUint64 := func(flag uint16, v uint64) {
		flags |= flag
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], v)
		result = append(result, buf[:]...)
	}

	if msg.Token != "" {
		appendBytes(hasToken, []byte(msg.Token))
	}
	if msg.ID != 0 {
		appendUint64(hasID, uint64(msg.ID))
	}
	if msg.Group != nil {
		appendBytes(hasGroup, msg.Group)
	}
	if msg.Admin != nil {
		appendBytes(hasAdmin, msg.Admin)
	}
	if msg.Name != "" {
		appendBytes(hasName, []byte(msg.Name))
	}
	if msg.Secret != "" {
		appendBytes(hasSecret, []byte(msg.Secret))
	}
	if msg.Ok {
		flags |= hasOk
		result = append(result, 1)
	}
	if msg.Count != 0 {
		appendUint64(hasCount, uint64(msg.Count))
	}
	if msg.Text != "" {
		appendBytes(hasText, []byte(msg.Text))
	}
	if msg.Err != "" {
		appendBytes(hasErr, []byte(msg.Err))
	}
	if msg.ErrCode != 0 {
		appendUint64(hasErrCode, msg.ErrCode)
	}

	binary.BigEndian.PutUint16(result[1:3], flags)
	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := binary.BigEndian.Uint16(data[1:3])
	pos := headerSize

	readBytes := func(field string) ([]byte, error) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("data too short for %s length", field)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, fmt.Errorf("data too short for %s data", field)
		}
		out := data[pos : pos+n]
		pos += n
		return out, nil
	}
	readUint64 := func(field string) (uint64, error) {
		if pos+8 > len(data) {
			return 0, fmt.Errorf("data too short for %s", field)
		}
		v := binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
		return v, nil
	}

	msg.Token = ""
	if flags&hasToken != 0 {
		v, err := readBytes("token")
		if err != nil {
			return err
		}
		msg.Token = string(v)
	}

	msg.ID = 0
	if flags&hasID != 0 {
		v, err := readUint64("id")
		if err != nil {
			return err
		}
		msg.ID = int64(v)
	}

	msg.Group = nil
	if flags&hasGroup != 0 {
		v, err := readBytes("group")
		if err != nil {
			return err
		}
		msg.Group = append([]byte(nil), v...)
	}

	msg.Admin = nil
	if flags&hasAdmin != 0 {
		v, err := readBytes("admin")
		if err != nil {
			return err
		}
		msg.Admin = append([]byte(nil), v...)
	}

	msg.Name = ""
	if flags&hasName != 0 {
		v, err := readBytes("name")
		if err != nil {
			return err
		}
		msg.Name = string(v)
	}

	msg.Secret = ""
	if flags&hasSecret != 0 {
		v, err := readBytes("secret")
		if err != nil {
			return err
		}
		msg.Secret = string(v)
	}

	msg.Ok = false
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for ok flag")
		}
		msg.Ok = data[pos] != 0
		pos++
	}

	msg.Count = 0
	if flags&hasCount != 0 {
		v, err := readUint64("count")
		if err != nil {
			return err
		}
		msg.Count = int64(v)
	}

	msg.Text = ""
	if flags&hasText != 0 {
		v, err := readBytes("text")
		if err != nil {
			return err
		}
		msg.Text = string(v)
	}

	msg.Err = ""
	if flags&hasErr != 0 {
		v, err := readBytes("err")
		if err != nil {
			return err
		}
		msg.Err = string(v)
	}

	msg.ErrCode = 0
	if flags&hasErrCode != 0 {
		v, err := readUint64("err code")
		if err != nil {
			return err
		}
		msg.ErrCode = v
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := headerSize

	if msg.Token != "" {
		size += 4 + len(msg.Token)
	}
	if msg.ID != 0 {
		size += 8
	}
	if msg.Group != nil {
		size += 4 + len(msg.Group)
	}
	if msg.Admin != nil {
		size += 4 + len(msg.Admin)
	}
	if msg.Name != "" {
		size += 4 + len(msg.Name)
	}
	if msg.Secret != "" {
		size += 4 + len(msg.Secret)
	}
	if msg.Ok {
		size += 1
	}
	if msg.Count != 0 {
		size += 8
	}
	if msg.Text != "" {
		size += 4 + len(msg.Text)
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}
	if msg.ErrCode != 0 {
		size += 8
	}

	return size
}
