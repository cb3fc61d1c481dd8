package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleID_Deterministic(t *testing.T) {
	for _, name := range KnownRoles {
		assert.Equal(t, RoleID(name), RoleID(name), name)
		assert.Equal(t, common.BytesToHash(ethcrypto.Keccak256([]byte(name))), RoleID(name), name)
	}
	assert.NotEqual(t, RoleID(RoleDefaultAdmin), RoleID(RoleProducer))
}

func TestRoleID_KnownValue(t *testing.T) {
	assert.Equal(t,
		"0x9f2df0fed2c77648de5860a4cc508cd0818c85b8b8a1ab4ceeef8d981c8956a6",
		RoleID("MINTER_ROLE").Hex())
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x00000000000000000000000000000000000000aA ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xaa"), addr)

	for _, bad := range []string{"", "   ", "0x1234", "not-an-address", "DIRECCIÓN_DEL_CONTRATO"} {
		_, err := ParseAddress(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestKeyRoundTripAndSign(t *testing.T) {
	priv, addr, err := GenerateKeyPair()
	require.NoError(t, err)

	h, err := PrivateKeyToHex(priv)
	require.NoError(t, err)
	back, err := HexToPrivateKey(h)
	require.NoError(t, err)
	assert.Equal(t, addr, ethcrypto.PubkeyToAddress(back.PublicKey))

	sig, err := SignText(priv, "hola")
	require.NoError(t, err)
	raw, err := hexutil.Decode(sig)
	require.NoError(t, err)
	require.Len(t, raw, 65)
	assert.Contains(t, []byte{27, 28}, raw[64])

	_, err = SignText(nil, "hola")
	assert.Error(t, err)
}
