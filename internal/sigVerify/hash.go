package sigVerify

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
)

// 生成钱包登录时需要签名的挑战消息
func ChallengeMessage(appName string, addr common.Address, nonce string) string {
	return fmt.Sprintf("%s quiere que inicies sesión con tu cuenta:\n%s\n\nNonce: %s", appName, addr.Hex(), nonce)
}

// EIP-191 personal_sign 摘要
func TextHash(msg string) []byte {
	return accounts.TextHash([]byte(msg))
}
