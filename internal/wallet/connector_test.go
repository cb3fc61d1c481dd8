package wallet

import (
	"testing"
	"time"

	"agricultura_dapp/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectFlow(t *testing.T) {
	c := NewConnector("Agricultura DApp", 137, time.Hour)
	priv, addr, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	msg := c.Challenge(addr)
	sig, err := crypto.SignText(priv, msg)
	require.NoError(t, err)

	sess, err := c.Connect(addr, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, sess.Address)
	assert.Equal(t, int64(137), sess.ChainID)
	assert.NotEmpty(t, sess.Token)

	assert.Same(t, sess, c.Lookup(sess.Token))
	assert.Nil(t, c.Lookup("unknown"))
	assert.Nil(t, c.Lookup(""))

	// 挑战只能使用一次
	_, err = c.Connect(addr, sig)
	assert.ErrorIs(t, err, ErrNoChallenge)

	assert.True(t, c.Disconnect(sess.Token))
	assert.False(t, c.Disconnect(sess.Token))
	assert.Nil(t, c.Lookup(sess.Token))
}

func TestConnect_WrongSigner(t *testing.T) {
	c := NewConnector("App", 1, time.Hour)
	_, addr, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	other, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	sig, err := crypto.SignText(other, c.Challenge(addr))
	require.NoError(t, err)

	_, err = c.Connect(addr, sig)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestConnect_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewConnector("App", 1, time.Minute)
	c.now = func() time.Time { return now }

	priv, addr, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	sig, err := crypto.SignText(priv, c.Challenge(addr))
	require.NoError(t, err)
	now = now.Add(challengeTTL + time.Second)
	_, err = c.Connect(addr, sig)
	assert.ErrorIs(t, err, ErrNoChallenge)

	sig, err = crypto.SignText(priv, c.Challenge(addr))
	require.NoError(t, err)
	sess, err := c.Connect(addr, sig)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	assert.Nil(t, c.Lookup(sess.Token))
}
