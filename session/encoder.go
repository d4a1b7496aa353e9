package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const (
	recordFormatVersionCurrent = 1
)

var errFieldTooLong = errors.New("record field too long")

// Encode serializes r as
// version | token len | token | user len | user | created_at unix nanos (big endian).
func Encode(r Record) ([]byte, error) {
	if len(r.Token) > 255 || len(r.UserID) > 255 {
		return nil, errFieldTooLong
	}

	var buf bytes.Buffer
	buf.Grow(2 + len(r.Token) + len(r.UserID) + 9)

	buf.WriteByte(recordFormatVersionCurrent)

	buf.WriteByte(byte(len(r.Token)))
	buf.WriteString(r.Token)

	buf.WriteByte(byte(len(r.UserID)))
	buf.WriteString(r.UserID)

	if err := binary.Write(&buf, binary.BigEndian, r.CreatedAt.UnixNano()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a value written by [Encode].
func Decode(data []byte) (Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Record{}, err
	}
	if version != recordFormatVersionCurrent {
		return Record{}, errors.New("invalid record version")
	}

	token, err := readShortString(reader)
	if err != nil {
		return Record{}, err
	}
	userID, err := readShortString(reader)
	if err != nil {
		return Record{}, err
	}

	var createdAt int64
	if err := binary.Read(reader, binary.BigEndian, &createdAt); err != nil {
		return Record{}, err
	}
	if reader.Len() != 0 {
		return Record{}, errors.New("trailing bytes in record")
	}

	return Record{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}, nil
}

func readShortString(reader *bytes.Reader) (string, error) {
	n, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(reader, out); err != nil {
		return "", err
	}
	return string(out), nil
}
