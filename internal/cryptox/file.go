package cryptox

import (
	"encoding/binary"

	"github.com/photovault/photovault/internal/common"
)

// File-level conveniences. The MIME type travels inside the sealed envelope
// (a small length-prefixed header in front of the raw bytes) so that decrypt
// restores it without consulting any external metadata.

// EncryptFile seals file bytes together with their MIME type.
func EncryptFile(data []byte, mimeType string, secretKey []byte) (*EncryptedPayload, error) {
	mime := []byte(mimeType)
	if len(mime) > 0xffff {
		mime = mime[:0xffff]
	}

	envelope := make([]byte, 2+len(mime)+len(data))
	binary.BigEndian.PutUint16(envelope[:2], uint16(len(mime)))
	copy(envelope[2:], mime)
	copy(envelope[2+len(mime):], data)

	return Encrypt(envelope, secretKey)
}

// DecryptFile opens a payload produced by EncryptFile, returning the file
// bytes and the original MIME type. Authentication failures surface as
// common.ErrUnverifiable, as do envelopes too short to carry a header.
func DecryptFile(p *EncryptedPayload, secretKey []byte) ([]byte, string, error) {
	envelope, err := Decrypt(p, secretKey)
	if err != nil {
		return nil, "", err
	}

	if len(envelope) < 2 {
		return nil, "", common.ErrUnverifiable
	}
	mimeLen := int(binary.BigEndian.Uint16(envelope[:2]))
	if len(envelope) < 2+mimeLen {
		return nil, "", common.ErrUnverifiable
	}

	mimeType := string(envelope[2 : 2+mimeLen])
	return envelope[2+mimeLen:], mimeType, nil
}
