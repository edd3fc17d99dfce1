package repository

import (
	"encoding/json"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/model"
)

// Codec serializes the position list into the stored document.
// The document is a JSON array; with an encryption key it is additionally
// sealed as a fernet token.
type Codec struct {
	key *fernet.Key
}

// NewCodec creates a Codec. An empty encryptionKey stores plain JSON.
// The key uses the standard fernet encoding (32 bytes, URL-safe base64).
func NewCodec(encryptionKey string) (*Codec, error) {
	if encryptionKey == "" {
		return &Codec{}, nil
	}
	key, err := fernet.DecodeKey(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store encryption key: %w", err)
	}
	return &Codec{key: key}, nil
}

// Encrypted reports whether documents are sealed with fernet.
func (c *Codec) Encrypted() bool {
	return c.key != nil
}

// Encode serializes positions. A nil list is stored as an empty array.
func (c *Codec) Encode(positions []model.Position) ([]byte, error) {
	if positions == nil {
		positions = []model.Position{}
	}

	data, err := json.Marshal(positions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode positions: %w", err)
	}

	if c.key == nil {
		return data, nil
	}

	token, err := fernet.EncryptAndSign(data, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt positions: %w", err)
	}
	return token, nil
}

// Decode parses a stored document. An empty document yields an empty list.
func (c *Codec) Decode(data []byte) ([]model.Position, error) {
	if len(data) == 0 {
		return []model.Position{}, nil
	}

	if c.key != nil {
		// ttl 0: tokens never expire
		data = fernet.VerifyAndDecrypt(data, 0, []*fernet.Key{c.key})
		if data == nil {
			return nil, fmt.Errorf("%w: cannot decrypt document", apperrors.ErrStoreCorrupt)
		}
	}

	positions := []model.Position{}
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreCorrupt, err)
	}
	return positions, nil
}
