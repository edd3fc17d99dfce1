package repository_test

import (
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
)

func generateKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	require.NoError(t, key.Generate())
	return key.Encode()
}

func TestCodec(t *testing.T) {
	positions := []model.Position{
		{ID: 1, Symbol: "RY", Shares: 10, PurchasePrice: 100, ThresholdPercent: -10},
		{ID: 2, Symbol: "TD", Shares: 5, PurchasePrice: 80.5, ThresholdPercent: -5},
	}

	t.Run("plain json uses snake_case field names", func(t *testing.T) {
		codec, err := repository.NewCodec("")
		require.NoError(t, err)
		assert.False(t, codec.Encrypted())

		data, err := codec.Encode(positions)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"purchase_price":100`)

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, positions, decoded)
	})

	t.Run("nil list is stored as empty array", func(t *testing.T) {
		codec, err := repository.NewCodec("")
		require.NoError(t, err)

		data, err := codec.Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("empty document decodes to empty list", func(t *testing.T) {
		codec, err := repository.NewCodec("")
		require.NoError(t, err)

		decoded, err := codec.Decode(nil)
		require.NoError(t, err)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded)
	})

	t.Run("invalid json is corrupt", func(t *testing.T) {
		codec, err := repository.NewCodec("")
		require.NoError(t, err)

		_, err = codec.Decode([]byte(`{not json`))
		assert.ErrorIs(t, err, apperrors.ErrStoreCorrupt)
	})

	t.Run("encrypted documents round trip", func(t *testing.T) {
		codec, err := repository.NewCodec(generateKey(t))
		require.NoError(t, err)
		assert.True(t, codec.Encrypted())

		data, err := codec.Encode(positions)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "RY")

		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, positions, decoded)
	})

	t.Run("wrong key is corrupt", func(t *testing.T) {
		writer, err := repository.NewCodec(generateKey(t))
		require.NoError(t, err)
		reader, err := repository.NewCodec(generateKey(t))
		require.NoError(t, err)

		data, err := writer.Encode(positions)
		require.NoError(t, err)

		_, err = reader.Decode(data)
		assert.ErrorIs(t, err, apperrors.ErrStoreCorrupt)
	})

	t.Run("invalid key is rejected", func(t *testing.T) {
		_, err := repository.NewCodec("not-a-key")
		assert.Error(t, err)
	})
}
